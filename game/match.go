package game

import (
	"fmt"

	"github.com/Software-Cat/MLHummingbirds/telemetry"
)

// State is the match flow phase in play mode.
type State int

const (
	StatePreparing State = iota // placing birds, refilling flowers
	StateCountdown              // birds frozen, clock ticking down
	StatePlaying                // both birds live
	StateGameOver               // clock or nectar ran out
)

// NoWinner marks a drawn match.
const NoWinner = -1

func (s State) String() string {
	switch s {
	case StatePreparing:
		return "preparing"
	case StateCountdown:
		return "countdown"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// stepMatch advances the play-mode state machine by one fixed step.
func (s *Session) stepMatch() error {
	switch s.state {
	case StatePreparing:
		return s.startMatch()
	case StateCountdown:
		s.stepCountdown()
	case StatePlaying:
		s.stepPlaying()
	case StateGameOver:
		// Waiting for Restart.
	}
	return nil
}

// startMatch refills the patch, places both birds, and freezes them for the
// countdown.
func (s *Session) startMatch() error {
	s.patch.ResetAll(s.rng)
	for _, b := range s.birds {
		if err := b.OnEpisodeBegin(); err != nil {
			return fmt.Errorf("starting match %d: %w", s.matchIndex, err)
		}
		b.Freeze()
	}

	s.winner = NoWinner
	s.countdownLeft = s.cfg.Derived.CountdownTicks
	s.matchLeft = s.cfg.Derived.MatchTicks
	s.state = StateCountdown
	return nil
}

// stepCountdown burns the pre-match clock and releases the birds at zero.
func (s *Session) stepCountdown() {
	s.countdownLeft--
	if s.countdownLeft > 0 {
		return
	}
	for _, b := range s.birds {
		b.Unfreeze()
	}
	s.state = StatePlaying
}

// stepPlaying runs one live step: the player acts on keyboard axes, the
// opponent on its policy, then flight and feeding. The match ends when the
// clock or the nectar runs out.
func (s *Session) stepPlaying() {
	player := s.birds[BirdPlayer]
	opponent := s.birds[BirdOpponent]

	s.perf.StartPhase(telemetry.PhaseActions)
	player.OnActionReceived(player.Heuristic(s.playerAxes))
	opponent.Step()

	s.perf.StartPhase(telemetry.PhaseFlight)
	s.flight.Update(s.cfg.Derived.DT32)

	s.perf.StartPhase(telemetry.PhaseFeeding)
	player.Tick()
	opponent.Tick()

	s.tick++
	s.matchLeft--

	if s.matchLeft <= 0 || s.patch.TotalNectar() <= 0 {
		s.endMatch()
	}
}

// endMatch freezes the birds, scores the match, and records one telemetry
// row per bird.
func (s *Session) endMatch() {
	for _, b := range s.birds {
		b.Freeze()
	}

	player := s.birds[BirdPlayer]
	opponent := s.birds[BirdOpponent]
	switch {
	case player.NectarObtained > opponent.NectarObtained:
		s.winner = BirdPlayer
	case opponent.NectarObtained > player.NectarObtained:
		s.winner = BirdOpponent
	default:
		s.winner = NoWinner
	}

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	steps := s.cfg.Derived.MatchTicks - s.matchLeft
	for _, b := range s.birds {
		s.submitRow(episodeRow(b, s.matchIndex, steps, s.cfg.Episode.DT))
	}

	s.state = StateGameOver
}

// Restart arms the next match. Only valid once the current one is over.
func (s *Session) Restart() {
	if s.state != StateGameOver {
		return
	}
	s.matchIndex++
	s.state = StatePreparing
}

// State returns the current match phase.
func (s *Session) State() State { return s.state }

// Winner returns the index of the winning bird, or NoWinner for a draw or
// an unfinished match.
func (s *Session) Winner() int { return s.winner }

// CountdownSeconds returns the remaining pre-match countdown in seconds.
func (s *Session) CountdownSeconds() float64 {
	return float64(s.countdownLeft) * s.cfg.Episode.DT
}

// MatchSecondsLeft returns the remaining match clock in seconds.
func (s *Session) MatchSecondsLeft() float64 {
	return float64(s.matchLeft) * s.cfg.Episode.DT
}

// MatchIndex returns the number of the current match, starting at zero.
func (s *Session) MatchIndex() int { return s.matchIndex }
