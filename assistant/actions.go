package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pagechat/respond"
	"pagechat/speech"
)

// Action is a quick action that skips classification.
type Action string

const (
	Analyze      Action = "analyze"
	Summarize    Action = "summarize"
	Explain      Action = "explain"
	Select       Action = "selection"
	SearchPrompt Action = "search"
)

// Actions lists the quick actions in menu order.
func Actions() []Action {
	return []Action{Analyze, Summarize, Explain, Select, SearchPrompt}
}

// ParseAction returns the action named s.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range Actions() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// QuickAction runs act against the active tab.
func (a *Assistant) QuickAction(ctx context.Context, act Action) (Reply, error) {
	if _, err := ParseAction(string(act)); err != nil {
		return Reply{}, err
	}
	if !a.begin() {
		return Reply{}, ErrBusy
	}
	defer a.end()

	start := time.Now()
	log := a.log.With("action", string(act))
	cfg := a.Settings(ctx)
	a.setState(Synthesizing)

	var reply Reply
	switch act {
	case Analyze:
		// Always re-read the active tab.
		rec, err := a.load(ctx)
		if err != nil {
			a.fail(log, err)
			reply.Text = respond.AnalyzeFailed
			break
		}
		reply = Reply{Text: a.deps.Synthesizer.Analysis(rec), Speech: respond.AnalysisSpoken}

	case Summarize:
		rec := a.Current()
		if rec == nil {
			var err error
			if rec, err = a.load(ctx); err != nil {
				a.fail(log, err)
				reply.Text = respond.SummarizeFailed
				break
			}
		}
		reply.Text = a.deps.Synthesizer.Summary(rec)

	case Explain:
		reply.Text = respond.ExplainPrompt
		if a.Current() == nil {
			if _, err := a.load(ctx); err != nil {
				a.fail(log, err)
				reply.Text = respond.ExplainFailed
			}
		}

	case Select:
		reply.Text = a.selection(ctx, log)

	case SearchPrompt:
		reply.Text = respond.SearchPrompt
	}

	reply = a.respond(ctx, reply, cfg, log)
	log.Info("action handled", "elapsed", time.Since(start))
	return reply, nil
}

// selection explains the text selected in the active tab. A non-empty
// selection is echoed into the transcript as a user turn first.
func (a *Assistant) selection(ctx context.Context, log *slog.Logger) string {
	if a.deps.Selection == nil {
		return respond.NoSelection
	}
	tab, err := a.deps.Tabs.ActiveTab(ctx)
	if err != nil {
		a.fail(log, err)
		return respond.ActionFailed
	}
	if a.deps.Injector != nil {
		if _, err := a.deps.Injector.EnsureExtractor(ctx, tab); err != nil {
			a.fail(log, err)
			return respond.ActionFailed
		}
	}
	text, err := a.deps.Selection.SelectedText(ctx, tab)
	if err != nil {
		a.fail(log, err)
		return respond.ActionFailed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return respond.NoSelection
	}
	a.record(RoleUser, respond.SelectionEcho(text))
	return a.deps.Synthesizer.ExplainSelection(text, a.Current())
}

// Listen records one voice utterance and handles its transcript as a chat
// message. Disabled voice and a missing recognizer are reported as notices
// and leave the session usable.
func (a *Assistant) Listen(ctx context.Context) (Reply, error) {
	if !a.begin() {
		return Reply{}, ErrBusy
	}
	defer a.end()

	log := a.log.With("action", "listen")
	if !a.Settings(ctx).VoiceEnabled {
		return Reply{Text: respond.VoiceDisabled}, nil
	}

	a.progress(respond.Listening)
	transcript, err := a.deps.Listener.Listen(ctx)
	switch {
	case errors.Is(err, speech.ErrUnsupported):
		a.fail(log, err)
		return Reply{Text: respond.VoiceMissing}, nil
	case errors.Is(err, speech.ErrNoSpeech):
		// Silence is not a failure; the user just said nothing.
		log.Debug("no speech heard")
		return Reply{}, ErrEmptyInput
	case err != nil:
		a.fail(log, err)
		return Reply{Text: respond.VoiceError(err)}, nil
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return Reply{}, ErrEmptyInput
	}
	a.progress(respond.Heard(transcript))
	return a.handle(ctx, transcript), nil
}
