// Package assistant runs the conversation: it classifies each message, reads
// or navigates the tab, picks the reply and keeps the transcript.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagechat/fetcher"
	"pagechat/intent"
	"pagechat/omnibox"
	"pagechat/page"
	"pagechat/respond"
	"pagechat/settings"
	"pagechat/speech"
)

var (
	// ErrEmptyInput is returned for blank messages. Nothing is recorded.
	ErrEmptyInput = errors.New("empty message")
	// ErrBusy is returned when an action is already in progress.
	ErrBusy = errors.New("assistant is busy")
	// ErrUnknownAction is returned for an unrecognised quick action.
	ErrUnknownAction = errors.New("unknown action")

	errExtractorNotReady = errors.New("extractor not ready")
)

// Tabs finds and navigates the tab the assistant works in.
type Tabs interface {
	ActiveTab(ctx context.Context) (fetcher.Tab, error)
	Navigate(ctx context.Context, url string) (fetcher.Tab, error)
}

// Injector loads the extraction helper into a tab. It is safe to call again
// on a tab that already has it.
type Injector interface {
	EnsureExtractor(ctx context.Context, tab fetcher.Tab) (bool, error)
}

// Extractor reads a tab into a page record.
type Extractor interface {
	Extract(ctx context.Context, tab fetcher.Tab) (*page.Record, error)
}

// Selection reads the text the user has selected in a tab.
type Selection interface {
	SelectedText(ctx context.Context, tab fetcher.Tab) (string, error)
}

// Resolver maps a search message to a destination.
type Resolver interface {
	Resolve(query string) omnibox.Resolution
}

// Synthesizer produces reply text.
type Synthesizer interface {
	Synthesize(c intent.Category, rec *page.Record, site *respond.SiteVisit) string
	Fallback(c intent.Category) string
	Analysis(rec *page.Record) string
	Summary(rec *page.Record) string
	ExplainSelection(text string, rec *page.Record) string
}

// Deps are the collaborators an Assistant calls. Tabs and Extractor are
// required; the rest have working defaults.
type Deps struct {
	Tabs        Tabs
	Injector    Injector
	Extractor   Extractor
	Selection   Selection
	Settings    settings.Store
	Speaker     speech.Speaker
	Listener    speech.Listener
	Synthesizer Synthesizer
	Resolver    Resolver
	Logger      *slog.Logger
}

// Options tunes an Assistant.
type Options struct {
	// Progress receives transient notices such as "Searching for ...".
	// They are not part of the transcript.
	Progress func(string)
}

// Role is the author of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one transcript entry.
type Turn struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Reply is the outcome of one action.
type Reply struct {
	Text   string
	Speech string // what was sent to the speaker, empty when nothing was
}

// State is the phase of the action in progress.
type State int

const (
	Idle State = iota
	Classifying
	Searching
	Synthesizing
	Responded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Classifying:
		return "classifying"
	case Searching:
		return "searching"
	case Synthesizing:
		return "synthesizing"
	case Responded:
		return "responded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// failure is the kind of collaborator failure an action hit.
type failure string

const (
	failExtraction  failure = "extraction"
	failNavigation  failure = "navigation"
	failUnsupported failure = "unsupported"
)

// failureOf maps a collaborator error to its failure kind. A missing tab
// counts as an extraction failure.
func failureOf(err error) failure {
	switch {
	case errors.Is(err, speech.ErrUnsupported):
		return failUnsupported
	case errors.Is(err, fetcher.ErrNavigation), errors.Is(err, fetcher.ErrBlocked):
		return failNavigation
	}
	return failExtraction
}

// Assistant is one chat session. Actions run one at a time; a second action
// started while one is in flight fails with ErrBusy.
type Assistant struct {
	deps     Deps
	progress func(string)
	log      *slog.Logger
	id       string

	gate sync.Mutex // held for the whole of an action

	mu         sync.Mutex
	state      State
	tab        fetcher.Tab
	current    *page.Record
	transcript []Turn
}

// New returns an Assistant in the Idle state with an empty transcript.
func New(deps Deps, opts Options) *Assistant {
	if deps.Settings == nil {
		deps.Settings = settings.NewMemory(settings.Default())
	}
	if deps.Speaker == nil {
		deps.Speaker = speech.Nop{}
	}
	if deps.Listener == nil {
		deps.Listener = speech.Unsupported{}
	}
	if deps.Synthesizer == nil {
		deps.Synthesizer = respond.Templates{}
	}
	if deps.Resolver == nil {
		deps.Resolver = omnibox.NewResolver("")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string) {}
	}

	id := uuid.NewString()
	return &Assistant{
		deps:     deps,
		progress: progress,
		log:      logger.With("session", id),
		id:       id,
	}
}

// ID returns the session id used in log records.
func (a *Assistant) ID() string { return a.id }

// State returns the phase of the action in progress.
func (a *Assistant) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Current returns the page record replies are built from, or nil.
func (a *Assistant) Current() *page.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Tab returns the tab the current record was read from.
func (a *Assistant) Tab() fetcher.Tab {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tab
}

// Transcript returns a copy of the conversation so far.
func (a *Assistant) Transcript() []Turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Turn, len(a.transcript))
	copy(out, a.transcript)
	return out
}

// Settings returns the session's current settings, or the defaults when the
// store cannot be read.
func (a *Assistant) Settings(ctx context.Context) settings.Settings {
	s, err := a.deps.Settings.Get(ctx)
	if err != nil {
		a.log.Warn("reading settings", "error", err)
		return settings.Default()
	}
	return s
}

func (a *Assistant) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *Assistant) setCurrent(tab fetcher.Tab, rec *page.Record) {
	a.mu.Lock()
	a.tab, a.current = tab, rec
	a.mu.Unlock()
}

func (a *Assistant) record(role Role, content string) {
	a.mu.Lock()
	a.transcript = append(a.transcript, Turn{Role: role, Content: content})
	a.mu.Unlock()
}

// begin takes the action gate.
func (a *Assistant) begin() bool {
	return a.gate.TryLock()
}

// end returns to Idle and releases the gate.
func (a *Assistant) end() {
	a.setState(Idle)
	a.gate.Unlock()
}

// HandleMessage answers one chat message.
func (a *Assistant) HandleMessage(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyInput
	}
	if !a.begin() {
		return Reply{}, ErrBusy
	}
	defer a.end()
	return a.handle(ctx, text), nil
}

// handle runs a message with the gate held.
func (a *Assistant) handle(ctx context.Context, text string) Reply {
	start := time.Now()
	a.setState(Classifying)
	a.record(RoleUser, text)

	cat, rule := intent.Trace(text)
	log := a.log.With("action", "message", "intent", string(cat), "rule", rule)
	cfg := a.Settings(ctx)

	var reply Reply
	if cat == intent.Search {
		reply = a.search(ctx, text, cfg, log)
	} else {
		reply = a.answer(ctx, cat, log)
	}
	reply = a.respond(ctx, reply, cfg, log)
	log.Info("message handled", "elapsed", time.Since(start))
	return reply
}

// search resolves text, loads the destination in the current tab and
// reports on it.
func (a *Assistant) search(ctx context.Context, text string, cfg settings.Settings, log *slog.Logger) Reply {
	if !cfg.AutoSearch {
		return Reply{Text: respond.SearchOffered(text)}
	}
	a.setState(Searching)

	res := a.deps.Resolver.Resolve(text)
	log = log.With("url", res.URL, "resolver", res.Rule)
	term := res.Term
	if term == "" {
		term = text
	}
	a.progress(respond.Searching(term))

	tab, err := a.deps.Tabs.Navigate(ctx, res.URL)
	if err != nil {
		a.fail(log, err)
		return Reply{Text: respond.SearchFailed}
	}
	rec, err := a.read(ctx, tab)
	if err != nil {
		a.fail(log, err)
		return Reply{Text: respond.SearchFailed}
	}
	a.setCurrent(tab, rec)

	a.setState(Synthesizing)
	visit := &respond.SiteVisit{Query: term, URL: res.URL, Page: rec}
	return Reply{Text: a.deps.Synthesizer.Synthesize(intent.Search, rec, visit)}
}

// answer replies from the current page, reading the active tab first when
// nothing has been read yet.
func (a *Assistant) answer(ctx context.Context, cat intent.Category, log *slog.Logger) Reply {
	rec := a.Current()
	if rec == nil {
		var err error
		if rec, err = a.load(ctx); err != nil {
			a.fail(log, err)
		}
	}
	a.setState(Synthesizing)
	return Reply{Text: a.deps.Synthesizer.Synthesize(cat, rec, nil)}
}

// load reads the active tab and makes it the current page.
func (a *Assistant) load(ctx context.Context) (*page.Record, error) {
	tab, err := a.deps.Tabs.ActiveTab(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := a.read(ctx, tab)
	if err != nil {
		return nil, err
	}
	a.setCurrent(tab, rec)
	return rec, nil
}

// read makes sure the extractor is in tab and extracts it.
func (a *Assistant) read(ctx context.Context, tab fetcher.Tab) (*page.Record, error) {
	if a.deps.Injector != nil {
		ok, err := a.deps.Injector.EnsureExtractor(ctx, tab)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errExtractorNotReady
		}
	}
	rec, err := a.deps.Extractor.Extract(ctx, tab)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, page.ErrNoContent
	}
	return rec, nil
}

// respond records reply and speaks it unless voice is off.
func (a *Assistant) respond(ctx context.Context, reply Reply, cfg settings.Settings, log *slog.Logger) Reply {
	a.record(RoleAssistant, reply.Text)
	a.setState(Responded)

	if !cfg.VoiceEnabled {
		reply.Speech = ""
		return reply
	}
	if reply.Speech == "" {
		reply.Speech = reply.Text
	}
	if err := a.deps.Speaker.Speak(ctx, reply.Speech); err != nil {
		log.Warn("speaking reply", "error", err)
		reply.Speech = ""
	}
	return reply
}

func (a *Assistant) fail(log *slog.Logger, err error) {
	log.Warn("action failed", "failure", string(failureOf(err)), "error", err)
}

// Start reads the active tab once when auto-analyze is on. Nothing is added
// to the transcript.
func (a *Assistant) Start(ctx context.Context) {
	if !a.Settings(ctx).AutoAnalyze {
		return
	}
	if !a.begin() {
		return
	}
	defer a.end()

	log := a.log.With("action", "start")
	if _, err := a.load(ctx); err != nil {
		a.fail(log, err)
		return
	}
	log.Debug("active tab analyzed")
}

// Open navigates the tab to url and forgets the previous page. With
// auto-analyze on the new page is read straight away.
func (a *Assistant) Open(ctx context.Context, url string) (fetcher.Tab, error) {
	if !a.begin() {
		return fetcher.Tab{}, ErrBusy
	}
	defer a.end()

	log := a.log.With("action", "open", "url", url)
	tab, err := a.deps.Tabs.Navigate(ctx, url)
	if err != nil {
		a.fail(log, err)
		return fetcher.Tab{}, err
	}
	a.setCurrent(tab, nil)

	if !a.Settings(ctx).AutoAnalyze {
		return tab, nil
	}
	rec, err := a.read(ctx, tab)
	if err != nil {
		a.fail(log, err)
		return tab, nil
	}
	a.setCurrent(tab, rec)
	return tab, nil
}
