package replication_test

import (
	"testing"

	"twentyfive/internal/domain"
	"twentyfive/internal/replication"

	"github.com/stretchr/testify/require"
)

func TestIntentIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		in := replication.NewDeclineRobIntent(0)
		require.NotEmpty(t, in.ID)
		require.False(t, seen[in.ID], "duplicate intent ID %s", in.ID)
		seen[in.ID] = true
	}
}

func TestIntentBuilders(t *testing.T) {
	card := domain.Card{Suit: domain.SuitClubs, Rank: domain.Rank5}

	play := replication.NewPlayIntent(2, card)
	require.Equal(t, replication.IntentPlayCard, play.Kind)
	require.Equal(t, 2, play.Seat)
	require.Equal(t, &card, play.Card)

	rob := replication.NewRobIntent(1, card)
	require.Equal(t, replication.IntentRob, rob.Kind)
	require.NotNil(t, rob.Card)

	decline := replication.NewDeclineRobIntent(3)
	require.Equal(t, replication.IntentDeclineRob, decline.Kind)
	require.Nil(t, decline.Card)
}

func TestIntentWireRoundTrip(t *testing.T) {
	in := replication.NewPlayIntent(1, domain.Card{Suit: domain.SuitHearts, Rank: domain.RankAce})

	data, err := replication.EncodeIntent(in)
	require.NoError(t, err)
	out, err := replication.DecodeIntent(data)
	require.NoError(t, err)
	require.Equal(t, in, out)

	_, err = replication.DecodeIntent([]byte("nope"))
	require.Error(t, err)
}
