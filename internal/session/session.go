package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/conorfennell/kanadrill/internal/domain"
	"github.com/conorfennell/kanadrill/internal/knol"
	"github.com/conorfennell/kanadrill/internal/sampler"
	"github.com/google/uuid"
)

const promptMarker = "|> "

// Recorder receives every answer given in a session.
type Recorder interface {
	RecordAnswer(rec domain.AnswerRecord) error
}

// Session is a single study session over a fixed item store.
type Session struct {
	id       string
	store    domain.Store
	sampler  *sampler.Sampler
	out      io.Writer
	diag     io.Writer
	recorder Recorder
	now      func() time.Time
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	source   rand.Source
	diag     io.Writer
	recorder Recorder
	now      func() time.Time
}

// WithSource sets the random source used to draw items.
func WithSource(src rand.Source) Option {
	return func(o *sessionOptions) { o.source = src }
}

// WithDiagnostics sets where user facing warnings, such as an unknown
// command, are written. Defaults to os.Stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(o *sessionOptions) { o.diag = w }
}

// WithRecorder logs every answer to r.
func WithRecorder(r Recorder) Option {
	return func(o *sessionOptions) { o.recorder = r }
}

// WithClock overrides the time stamped on recorded answers.
func WithClock(now func() time.Time) Option {
	return func(o *sessionOptions) { o.now = now }
}

// New creates a session over store writing its prompts to out.
func New(store domain.Store, out io.Writer, opts ...Option) (*Session, error) {
	o := sessionOptions{diag: os.Stderr, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	smp, err := sampler.New(store.Len(), o.source)
	if err != nil {
		return nil, fmt.Errorf("failed to create weighted index for study items: %w", err)
	}

	return &Session{
		id:       uuid.NewString(),
		store:    store,
		sampler:  smp,
		out:      out,
		diag:     o.diag,
		recorder: o.recorder,
		now:      o.now,
	}, nil
}

// ID returns the unique id of this session.
func (s *Session) ID() string {
	return s.id
}

// Store returns the items the session draws from.
func (s *Session) Store() domain.Store {
	return s.store
}

// Weights returns a copy of the current weight table.
func (s *Session) Weights() []uint32 {
	return s.sampler.Weights()
}

// Sample draws the next item. It reports false when there is nothing to study.
func (s *Session) Sample() (int, domain.Item, bool) {
	index, ok := s.sampler.Sample()
	if !ok || index >= s.store.Len() {
		return 0, domain.Item{}, false
	}
	return index, s.store.Items[index], true
}

// Answer checks answer against the item at index and updates the weights.
// A correct answer resets the item's weight before every weight is
// incremented; a wrong answer only increments.
func (s *Session) Answer(index int, answer string) (bool, error) {
	if index < 0 || index >= s.store.Len() {
		return false, fmt.Errorf("item index %d out of range [0,%d)", index, s.store.Len())
	}
	item := s.store.Items[index]
	correct := answer == item.Back

	if correct {
		if err := s.sampler.Reset(index); err != nil {
			return false, fmt.Errorf("failed to sync weighted index: %w", err)
		}
	}
	if err := s.sampler.Increment(); err != nil {
		return false, fmt.Errorf("failed to sync weighted index: %w", err)
	}

	s.record(item, answer, correct)
	return correct, nil
}

func (s *Session) record(item domain.Item, answer string, correct bool) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.RecordAnswer(domain.AnswerRecord{
		SessionID:  s.id,
		ItemHash:   knol.Hash(item),
		Front:      item.Front,
		Back:       item.Back,
		Answer:     answer,
		Correct:    correct,
		AnsweredAt: s.now(),
	})
	if err != nil {
		slog.Warn("failed to record answer", "session_id", s.id, "error", err)
	}
}

// PrintBanner writes the session start message with the set names sorted.
func (s *Session) PrintBanner() {
	names := append([]string(nil), s.store.Sets...)
	sort.Strings(names)
	fmt.Fprintf(s.out, "Starting session for %d items from sets: %s\n", s.store.Len(), strings.Join(names, ", "))
	fmt.Fprintf(s.out, "Type '%sh' for commands.\n", CommandPrefix)
}

// Run drives the prompt loop until the user quits, input ends or there is
// nothing left to study.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	reader := bufio.NewReader(in)

	for {
		index, item, ok := s.Sample()
		if !ok {
			fmt.Fprintln(s.out, "No items available for study. Exiting session.")
			return nil
		}

		done, err := s.turn(ctx, reader, index, item)
		if done || err != nil {
			return err
		}
	}
}

// turn prompts with one item until it gets an answer. It reports true when
// the session should end.
func (s *Session) turn(ctx context.Context, reader *bufio.Reader, index int, item domain.Item) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return true, err
		}

		fmt.Fprintf(s.out, "\n%s\n%s", item.Front, promptMarker)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return true, fmt.Errorf("failed to read line from input: %w", err)
		}
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(s.out)
			return true, nil
		}

		cmd, perr := ParseCommand(strings.TrimSpace(line))
		if perr != nil {
			// Not a log record: it must reach the user at any log level.
			fmt.Fprintf(s.diag, "Invalid command %q: %v. Type %sq to quit.\n", strings.TrimSpace(line), perr, CommandPrefix)
			continue
		}

		switch cmd.Kind {
		case Help:
			fmt.Fprint(s.out, helpText)
		case Weights:
			s.printWeights()
		case Quit:
			fmt.Fprintln(s.out, "Quitting...")
			return true, nil
		case Answer:
			correct, err := s.Answer(index, cmd.Text)
			if err != nil {
				return true, err
			}
			if correct {
				fmt.Fprintln(s.out, "Correct!")
			} else {
				fmt.Fprintf(s.out, "Incorrect. The correct answer is: %s\n", item.Back)
			}
			return false, nil
		}
	}
}

type weightedItem struct {
	weight uint32
	item   domain.Item
}

func (s *Session) printWeights() {
	weights := s.sampler.Weights()
	rows := make([]weightedItem, len(weights))
	for i, w := range weights {
		rows[i] = weightedItem{weight: w, item: s.store.Items[i]}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].weight > rows[j].weight
	})

	for _, r := range rows {
		fmt.Fprintf(s.out, "%s / %s / %-3d\n", r.item.Front, r.item.Back, r.weight)
	}
	fmt.Fprintln(s.out)
}
