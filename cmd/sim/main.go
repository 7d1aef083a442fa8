// Command sim runs an AI-vs-AI game of Twenty-Five in the terminal. It
// drives the same authority and intent path the Nakama match handler uses,
// so a full simulated game exercises dealing, robbing, renege checks, trick
// resolution and scoring end to end.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"twentyfive/internal/app"
	"twentyfive/internal/bot"
	"twentyfive/internal/domain"
	"twentyfive/internal/replication"

	"github.com/fatih/color"
)

var (
	redSuit   = color.New(color.FgHiRed).SprintFunc()
	blackSuit = color.New(color.FgHiWhite).SprintFunc()
	trumpMark = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	headline  = color.New(color.FgHiCyan, color.Bold).SprintFunc()
	winLine   = color.New(color.FgHiGreen, color.Bold).SprintFunc()
)

func renderCard(c domain.Card, trump domain.Suit) string {
	s := c.String()
	if domain.IsTrump(c, trump) {
		return trumpMark(s)
	}
	if c.Suit.IsRed() {
		return redSuit(s)
	}
	return blackSuit(s)
}

func renderHand(hand []domain.Card, trump domain.Suit) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = renderCard(c, trump)
	}
	return strings.Join(parts, " ")
}

func main() {
	players := flag.Int("players", 4, "number of seats (2..9)")
	difficulty := flag.String("difficulty", "hard", "bot difficulty: easy, normal or hard")
	handsToWin := flag.Int("hands", 1, "hands needed to win the match")
	seed := flag.Int64("seed", 0, "deal seed, 0 for random")
	quiet := flag.Bool("quiet", false, "only print hand and game results")
	flag.Parse()

	rules := domain.DefaultRules()
	rules.HandsToWin = *handsToWin

	game, err := domain.NewGame(*players, rules)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sim:", err)
		os.Exit(1)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}

	auth := replication.NewAuthority(game, app.NewService(rng), replication.NopLogger{})

	// Watch the game through an observer fed by published snapshots, the
	// way a remote client would.
	obs := replication.NewObserver()
	auth.Subscribe(func(s replication.Snapshot) {
		obs.Apply(s)
	})

	agents := make([]*bot.Agent, *players)
	for i := range agents {
		identity := bot.GetIdentity(i)
		identity.Difficulty = *difficulty
		agents[i], err = bot.NewAgent(identity)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sim:", err)
			os.Exit(1)
		}
	}

	events, err := auth.Start()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sim:", err)
		os.Exit(1)
	}
	report(auth, agents, events, *quiet)

	for steps := 0; auth.Game().Phase != domain.PhaseGameOver; steps++ {
		if steps > 100000 {
			fmt.Fprintln(os.Stderr, "sim: game did not terminate")
			os.Exit(1)
		}
		events, err := step(auth, agents)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sim:", err)
			os.Exit(1)
		}
		report(auth, agents, events, *quiet)
	}
}

// step performs one state machine transition using the seat's agent.
func step(auth *replication.Authority, agents []*bot.Agent) ([]app.Event, error) {
	g := auth.Game()
	switch g.Phase {
	case domain.PhaseRobbing:
		seat := g.RobberSeat()
		decision := agents[seat].RobTurn(g, seat)
		if decision.Accept || g.TrumpCardIsAce {
			auth.Submit(replication.NewRobIntent(seat, decision.Discard))
		} else {
			auth.Submit(replication.NewDeclineRobIntent(seat))
		}
		return auth.Drain(), nil
	case domain.PhasePlaying:
		seat := g.CurrentPlayer
		card, err := agents[seat].PlayTurn(g, seat)
		if err != nil {
			return nil, err
		}
		auth.Submit(replication.NewPlayIntent(seat, card))
		return auth.Drain(), nil
	case domain.PhaseTrickComplete:
		return auth.AdvanceTrick()
	case domain.PhaseHandComplete:
		return auth.AdvanceHand()
	default:
		return nil, fmt.Errorf("unexpected phase %q", g.Phase)
	}
}

func report(auth *replication.Authority, agents []*bot.Agent, events []app.Event, quiet bool) {
	g := auth.Game()
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.HandStartedPayload:
			fmt.Println(headline(fmt.Sprintf("--- hand %d ---", p.HandNumber)))
			fmt.Printf("dealer %s, turn-up %s\n", seatName(agents, p.Dealer), renderCard(p.TrumpCard, p.TrumpSuit))
			if !quiet {
				for seat := range g.Hands {
					fmt.Printf("  %-12s %s\n", seatName(agents, seat), renderHand(g.Hands[seat], g.TrumpSuit))
				}
			}
		case app.RobTurnPayload:
			if !quiet {
				forced := ""
				if p.Forced {
					forced = " (forced, ace turned up)"
				}
				fmt.Printf("%s may rob%s\n", seatName(agents, p.Seat), forced)
			}
		case app.TrumpRobbedPayload:
			fmt.Printf("%s robs the %s\n", seatName(agents, p.Seat), renderCard(g.TrumpCard, g.TrumpSuit))
		case app.CardPlayedPayload:
			if !quiet {
				fmt.Printf("  %-12s plays %s\n", seatName(agents, p.Seat), renderCard(p.Card, g.TrumpSuit))
			}
		case app.TrickEndedPayload:
			if !quiet {
				fmt.Printf("%s takes the trick, scores %v\n", seatName(agents, p.Winner), p.Scores)
			}
		case app.PackRedealtPayload:
			fmt.Printf("hand tricks exhausted, redealt from pack (%d cards left)\n", p.PackRemaining)
		case app.HandCompletePayload:
			how := "reaches 25"
			if p.Fallback {
				how = "wins on points, pack exhausted"
			}
			fmt.Println(winLine(fmt.Sprintf("%s %s: %v", seatName(agents, p.Winner), how, p.Scores)))
		case app.GameOverPayload:
			fmt.Println(winLine(fmt.Sprintf("game over: %s wins the match, hand wins %v", seatName(agents, p.Winner), p.HandWins)))
		}
	}
}

func seatName(agents []*bot.Agent, seat int) string {
	if seat >= 0 && seat < len(agents) {
		return fmt.Sprintf("%s[%d]", agents[seat].Name, seat)
	}
	return fmt.Sprintf("seat %d", seat)
}
