package gps

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gpstaild/pkg/file"
	"gpstaild/pkg/log"
)

const (
	// DefaultLatency applies when the configured latency is absent or zero.
	DefaultLatency = 2 * time.Second

	// Chunk size of the incremental log reads
	readChunkSize = 512
)

var (
	ErrSessionActive = errors.New("session is already active")
)

// SessionState is the lifecycle of one tailing session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateActive
	StateStopping
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Config selects the tailed log and the dispatch behavior.
type Config struct {
	// Directory holding the sentence log
	Path string

	// File name of the sentence log inside Path
	File string

	// Latency is the configured callback latency. The pacing interval of
	// the dispatch pool is Latency/2. Zero selects DefaultLatency.
	Latency time.Duration

	// Workers in the dispatch pool, default 1. With more than one worker
	// cross-callback ordering is best effort.
	Workers int
}

// Session tails an append-only NMEA sentence log and dispatches decoded
// fixes, satellite visibility and raw sentences to the injected callbacks.
//
// The file handle and read offset are owned exclusively by the session's
// single run goroutine. The dispatch pool queue is the only structure shared
// with worker goroutines.
type Session struct {
	id  string
	cfg Config
	cb  Callbacks

	// Guards lifecycle transitions (Start/Stop)
	lifecycleMu sync.Mutex
	state       SessionState

	// Cooperative stop flag, checked once per read iteration. One chunk may
	// still be processed after stop is requested.
	stopFlag atomic.Bool

	// Guards fix and view, written by pool workers
	mu   sync.Mutex
	fix  Fix
	view SatelliteView

	// Owned by the run goroutine
	offset int64
	asm    lineAssembler

	pool  *dispatchPool
	watch oneShotWatch

	resume  chan struct{}
	quit    chan struct{}
	runDone sync.WaitGroup
}

// NewSession builds an idle session. Callbacks are fixed for the lifetime of
// the session; nil slots are skipped at dispatch time.
func NewSession(cfg Config, cb Callbacks) *Session {
	return &Session{
		id:    uuid.NewString(),
		cfg:   cfg,
		cb:    cb,
		state: StateIdle,
		fix:   unknownFix(),
	}
}

func (s *Session) logPath() string {
	return filepath.Join(s.cfg.Path, s.cfg.File)
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	return s.state
}

// Fix returns the last published fix, or the unknown sentinel.
func (s *Session) Fix() Fix {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fix
}

// Satellites returns the last published satellite view.
func (s *Session) Satellites() SatelliteView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view
}

// Start validates the source, emits session-begin and launches the single
// run goroutine. It fails fast and stays Idle when the log file or the
// configuration is unusable. Starting an active session returns
// ErrSessionActive.
func (s *Session) Start() error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.state != StateIdle {
		return ErrSessionActive
	}

	if err := file.Exists(s.logPath()); err != nil {
		return fmt.Errorf("sentence log unavailable: %w", err)
	}

	latency := s.cfg.Latency
	if latency <= 0 {
		latency = DefaultLatency
	}
	interval := latency / 2

	s.mu.Lock()
	s.fix = unknownFix()
	s.view = SatelliteView{}
	s.mu.Unlock()

	s.emitStatus(SessionBegin)

	s.stopFlag.Store(false)
	s.pool = newDispatchPool(s.cfg.Workers, interval)
	s.resume = make(chan struct{}, 1)
	s.quit = make(chan struct{})

	s.runDone.Add(1)
	go s.run()

	s.state = StateActive
	log.Info("gps session started",
		zap.String("session", s.id),
		zap.String("log", s.logPath()),
		zap.Duration("interval", interval),
		zap.Int64("offset", s.offset))

	return nil
}

// run is the only read loop of the session. It drains the log once, then
// alternates between waiting for a resume message from the one-shot watch
// and draining again. Resume is a message, never a re-entrant call, so at
// most one read pass is ever in flight.
func (s *Session) run() {
	defer s.runDone.Done()

	for {
		if err := s.readPass(); err != nil {
			// Steady-state failures end the reading; recovery is an
			// explicit Stop/Start by the owner, never an internal retry.
			log.Error("read pass failed", zap.String("session", s.id), zap.Error(err))
			return
		}

		if s.stopFlag.Load() {
			return
		}

		select {
		case <-s.resume:
		case <-s.quit:
			return
		}
	}
}

// readPass drains the log from the saved offset. Reaching end-of-file is
// not an error: it closes the file, re-arms the watch and keeps the offset
// so the next pass resumes where this one ended.
func (s *Session) readPass() error {
	f, err := os.Open(s.logPath())
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if s.offset > 0 {
		if _, err := f.Seek(s.offset, io.SeekStart); err != nil {
			return err
		}
	}

	buf := make([]byte, readChunkSize)
	for {
		if s.stopFlag.Load() {
			// Stop landed between chunks. Terminal for this activation, the
			// watch stays disarmed.
			return nil
		}

		n, err := f.Read(buf)
		if n > 0 {
			s.offset += int64(n)
			for _, line := range s.asm.feed(buf[:n]) {
				s.handleLine(line)
			}
		}

		if err == io.EOF {
			if s.stopFlag.Load() {
				return nil
			}
			// Wait for the driver to append more data
			return s.armWatch()
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) armWatch() error {
	resume := s.resume
	err := s.watch.arm(s.cfg.Path, s.cfg.File, func() {
		select {
		case resume <- struct{}{}:
		default:
			// A resume is already pending, the next pass drains everything
		}
	})

	// Stop disarms concurrently; an already-armed watch is fine here.
	if errors.Is(err, ErrWatchArmed) {
		return nil
	}
	return err
}

// Stop ends the session: it requests the read loop to finish, disarms the
// watch, drains and joins the dispatch pool, resets the offset to zero so a
// later Start re-reads from the beginning, and emits session-end. Calling
// Stop on an idle session is a no-op, so exactly one session-end is emitted
// per Start/Stop pair.
func (s *Session) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.state != StateActive {
		return
	}
	s.state = StateStopping

	s.stopFlag.Store(true)
	close(s.quit)
	s.watch.disarm()

	// The run goroutine may process at most one more chunk before it
	// observes the flag.
	s.runDone.Wait()

	// A pass that hit EOF in the meantime may have re-armed the watch
	s.watch.disarm()

	// Drain and join the workers, no callback fires past this point
	s.pool.close()
	s.pool = nil

	s.offset = 0
	s.asm.reset()

	s.emitStatus(SessionEnd)

	s.mu.Lock()
	s.fix = unknownFix()
	s.view = SatelliteView{}
	s.mu.Unlock()

	s.state = StateIdle
	log.Info("gps session stopped", zap.String("session", s.id))
}

func (s *Session) emitStatus(st Status) {
	if s.cb.OnStatus != nil {
		s.cb.OnStatus(st)
	}
}
