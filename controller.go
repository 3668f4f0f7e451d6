package botbase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mdouchement/botbase/bot"
	"github.com/mdouchement/logger"
)

const maxMessageSize = 4 << 10

// A Relay shares one board between the clients connected to its unix socket.
type Relay struct {
	bot      Bot
	baud     int
	history  int
	events   chan loopEvent
	stop     chan struct{}
	done     chan struct{}
	listener net.Listener
	server   *http.Server
}

func New(cfg Config, b Bot) (*Relay, error) {
	r := &Relay{
		bot:     b,
		baud:    cfg.BaudRate,
		history: cfg.History,
		events:  make(chan loopEvent, 10),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if r.history < 1 {
		r.history = DefaultHistory
	}

	err := os.MkdirAll(filepath.Dir(cfg.Socket), 0o755)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if _, err := os.Stat(cfg.Socket); err == nil {
		fmt.Printf("Removing existing %s\n", cfg.Socket)
		os.Remove(cfg.Socket)
	}
	r.listener, err = net.Listen("unix", cfg.Socket)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	return r, nil
}

func (r *Relay) Addr() string {
	return r.listener.Addr().String()
}

// Done is closed once the relay has released the socket and the board.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

func (r *Relay) Launch(ctx context.Context) {
	log := logger.LogWith(ctx)

	go r.eventLoop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /monitor", r.monitor(log))
	mux.HandleFunc("POST /send", r.send(log))
	mux.HandleFunc("GET /status", r.status)
	r.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx // Cancels long running monitors on shutdown
		},
	}

	go func() {
		log.Info("Starting HTTP server on", r.Addr())
		err := r.server.Serve(r.listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Could not serve HTTP")
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.readLoop(log)
	}()

	go func() {
		<-ctx.Done()

		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.server.Shutdown(sctx); err != nil {
			log.WithError(err).Error("Could not shutdown HTTP server")
		}
		if err := os.Remove(r.Addr()); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Errorf("Could not remove socket %s", r.Addr())
		}

		if err := r.bot.Close(); err != nil {
			log.WithError(err).Error("Could not close the board")
		}
		wg.Wait()

		close(r.stop)
		<-r.done
	}()
}

func (r *Relay) readLoop(log logger.Logger) {
	for {
		line, err := r.bot.ReadLine()
		if err != nil {
			if errors.Is(err, bot.ErrClosed) || errors.Is(err, io.EOF) {
				log.Info("Port closed")
				return
			}

			log.WithError(err).Error("Serial port error")
			r.record(Event{Kind: EventError, Data: err.Error()})
			return
		}

		log.Info("Arduino: " + line)
		r.record(Event{Kind: EventRX, Data: line})
	}
}

func (r *Relay) record(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	r.push(loopEvent{name: loopRecord, event: e})
}

// push hands e to the event loop, unless the relay is stopped.
func (r *Relay) push(e loopEvent) bool {
	select {
	case r.events <- e:
		return true
	case <-r.stop:
		return false
	}
}

func (r *Relay) eventLoop(ctx context.Context) {
	defer close(r.done)

	log := logger.LogWith(ctx)
	watchers := map[int64]chan<- Event{}
	history := make([]Event, 0, r.history)
	var count uint64

	for {
		var e loopEvent
		select {
		case e = <-r.events:
		case <-r.stop:
			for _, watcher := range watchers {
				close(watcher)
			}
			return
		}

		switch e.name {
		case loopRecord:
			count++
			if len(history) == r.history {
				copy(history, history[1:])
				history = history[:len(history)-1]
			}
			history = append(history, e.event)

			for id, watcher := range watchers {
				select {
				case watcher <- e.event:
				default:
					log.Warnf("Monitor %d is too slow, event dropped", id)
				}
			}
		case loopWatch:
			for _, h := range history {
				e.monitor <- h // Buffer is large enough for the whole history
			}
			watchers[e.monitorID] = e.monitor
		case loopUnwatch:
			if watcher, ok := watchers[e.monitorID]; ok {
				close(watcher)
				delete(watchers, e.monitorID)
			}
		case loopStatus:
			e.status <- Status{
				Port:     r.bot.Port(),
				BaudRate: r.baud,
				Watchers: len(watchers),
				Events:   count,
			}
		}
	}
}

func (r *Relay) monitor(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		log.Info("Client connected")

		// Set http headers required for SSE.
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		rc := http.NewResponseController(w)
		if err := rc.Flush(); err != nil {
			log.WithError(err).Error("Could not flush monitor headers")
			return
		}

		id := genID()
		ch := make(chan Event, r.history+20)
		if !r.push(loopEvent{name: loopWatch, monitorID: id, monitor: ch}) {
			return
		}
		defer r.push(loopEvent{name: loopUnwatch, monitorID: id})

		for {
			select {
			case <-req.Context().Done():
				log.Info("Client disconnected")
				return
			case e, ok := <-ch:
				if !ok {
					return
				}

				if err := WriteSSE(w, e); err != nil {
					log.WithError(err).Error("Could not write monitor SSE payload")
					return
				}
			}
		}
	}
}

func (r *Relay) send(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var message string
		var write func() error

		if name := req.URL.Query().Get("steer"); name != "" {
			s, err := bot.SteerByName(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			message = string(s.Byte())
			write = func() error {
				return r.bot.SendSteer(s)
			}
		} else {
			body, err := io.ReadAll(io.LimitReader(req.Body, maxMessageSize+1))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if len(body) > maxMessageSize {
				http.Error(w, fmt.Sprintf("message exceeds %d bytes", maxMessageSize), http.StatusRequestEntityTooLarge)
				return
			}

			message = strings.TrimSpace(string(body))
			if message == "" {
				http.Error(w, bot.ErrEmptyMessage.Error(), http.StatusBadRequest)
				return
			}
			write = func() error {
				_, err := r.bot.Send(message)
				return err
			}
		}

		// Recorded before writing so the board answer is always seen after it.
		e := Event{Kind: EventTX, Data: message, At: time.Now()}
		r.record(e)

		log.Info("writing: " + message)
		if err := write(); err != nil {
			log.WithError(err).Errorf("Could not write %q", message)
			r.record(Event{Kind: EventError, Data: err.Error()})
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(e)
	}
}

func (r *Relay) status(w http.ResponseWriter, req *http.Request) {
	ch := make(chan Status, 1)
	if !r.push(loopEvent{name: loopStatus, status: ch}) {
		http.Error(w, "relay stopped", http.StatusServiceUnavailable)
		return
	}

	select {
	case s := <-ch:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	case <-r.done:
		http.Error(w, "relay stopped", http.StatusServiceUnavailable)
	}
}
