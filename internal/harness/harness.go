package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"civseq/internal/civil"
	"civseq/internal/streamer"
	"civseq/internal/tzrules"
)

// Harness drives one scenario run against a fresh streamer.
type Harness struct {
	rules  *tzrules.Rules
	ts     *streamer.TimeStreamer
	logger *slog.Logger
}

// Run executes a scenario and returns its result. Each run builds a fresh
// streamer, so scenarios are isolated and reproducible.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario with step-level diagnostics sent to
// the given logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	rules, err := resolveZone(scenario)
	if err != nil {
		return nil, err
	}

	ts := streamer.New(rules)
	if scenario.Start != "" {
		start, err := civil.ParseDateTime(scenario.Start)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: start: %w", scenario.Name, err)
		}
		ts, err = streamer.NewAt(rules, start)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: start: %w", scenario.Name, err)
		}
	}

	h := &Harness{rules: rules, ts: ts, logger: logger}

	result := NewResult(scenario.token())
	for i, step := range scenario.Steps {
		if err := h.executeStep(step, result); err != nil {
			return nil, fmt.Errorf("scenario %s: step %d: %w", scenario.Name, i+1, err)
		}
	}
	return result, nil
}

// resolveZone looks the scenario's zone up among the built-ins, falling
// back to a rule file next to the scenario.
func resolveZone(scenario *Scenario) (*tzrules.Rules, error) {
	if rules, ok := tzrules.Builtin(scenario.Zone); ok {
		return rules, nil
	}
	path := scenario.Zone
	if !filepath.IsAbs(path) {
		path = filepath.Join(scenario.baseDir, path)
	}
	rules, err := tzrules.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: zone: %w", scenario.Name, err)
	}
	return rules, nil
}

// executeStep runs one step, appends its trace events, and validates the
// expect clause.
func (h *Harness) executeStep(step Step, result *Result) error {
	var ev *TraceEvent
	switch {
	case step.Set != "":
		dt, err := civil.ParseDateTime(step.Set)
		if err != nil {
			return err
		}
		ev = h.record(result, "set", step.Set, h.ts.SetDateTime(dt))
	case step.SetDate != "":
		d, err := civil.ParseDate(step.SetDate)
		if err != nil {
			return err
		}
		ev = h.record(result, "set_date", step.SetDate, h.ts.SetDate(d))
	case step.SetTime != "":
		tod, err := civil.ParseTimeOfDay(step.SetTime)
		if err != nil {
			return err
		}
		roll := streamer.RollForward
		if step.Roll == "none" {
			roll = streamer.RollNone
		}
		ev = h.record(result, "set_time", step.SetTime, h.ts.SetTimeOfDay(tod, roll))
	case step.Add != "":
		d, err := time.ParseDuration(step.Add)
		if err != nil {
			return err
		}
		h.ts.Add(d)
		ev = h.record(result, "add", step.Add, nil)
	case step.Next > 0:
		for i := 0; i < step.Next; i++ {
			instant := h.ts.Next()
			ev = result.addEvent(TraceEvent{
				Op:        "next",
				Instant:   formatInstant(instant),
				Delta:     h.ts.Delta().String(),
				DayRolled: h.ts.DayRolled(),
			})
		}
	case step.Now:
		ev = result.addEvent(TraceEvent{
			Op:      "now",
			Instant: formatInstant(h.ts.Now()),
			Delta:   h.ts.Delta().String(),
		})
	default:
		return fmt.Errorf("empty step")
	}

	h.logger.Debug("step executed", "op", ev.Op, "arg", ev.Arg, "instant", ev.Instant, "error", ev.Error)

	if step.Expect != nil {
		h.checkExpect(*step.Expect, ev, result)
	}
	return nil
}

// record traces a mutating operation. Failed assignments carry the error
// code and no instant, since the streamer state did not change.
func (h *Harness) record(result *Result, op, arg string, err error) *TraceEvent {
	ev := TraceEvent{Op: op, Arg: arg}
	if err != nil {
		var re *streamer.ResolveError
		if errors.As(err, &re) {
			ev.Error = string(re.Code)
		} else {
			ev.Error = err.Error()
		}
	} else {
		ev.Instant = formatInstant(h.ts.Now())
		ev.Delta = h.ts.Delta().String()
		ev.DayRolled = h.ts.DayRolled()
	}
	return result.addEvent(ev)
}

// checkExpect validates a step's expect clause against its final trace
// event.
func (h *Harness) checkExpect(expect Expect, ev *TraceEvent, result *Result) {
	if expect.Error != "" {
		if ev.Error != expect.Error {
			result.AddError(fmt.Sprintf("seq %d: expected error %q, got %q", ev.Seq, expect.Error, ev.Error))
		}
		return
	}
	if ev.Error != "" {
		result.AddError(fmt.Sprintf("seq %d: unexpected error %q", ev.Seq, ev.Error))
		return
	}
	if expect.Instant != "" {
		want, err := time.Parse(time.RFC3339Nano, expect.Instant)
		if err != nil {
			result.AddError(fmt.Sprintf("seq %d: bad expected instant %q: %v", ev.Seq, expect.Instant, err))
		} else if got, _ := time.Parse(instantLayout, ev.Instant); !got.Equal(want) {
			result.AddError(fmt.Sprintf("seq %d: expected instant %s, got %s", ev.Seq, formatInstant(want), ev.Instant))
		}
	}
	if expect.Delta != "" {
		want, err := time.ParseDuration(expect.Delta)
		if err != nil {
			result.AddError(fmt.Sprintf("seq %d: bad expected delta %q: %v", ev.Seq, expect.Delta, err))
		} else if got, _ := time.ParseDuration(ev.Delta); got != want {
			result.AddError(fmt.Sprintf("seq %d: expected delta %s, got %s", ev.Seq, want, ev.Delta))
		}
	}
	if expect.DayRolled != nil && ev.DayRolled != *expect.DayRolled {
		result.AddError(fmt.Sprintf("seq %d: expected day_rolled=%t, got %t", ev.Seq, *expect.DayRolled, ev.DayRolled))
	}
}
