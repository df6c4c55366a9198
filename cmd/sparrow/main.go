package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/indigo-web/sparrow"
	"github.com/indigo-web/sparrow/config"
	"github.com/indigo-web/sparrow/http"
	"github.com/indigo-web/sparrow/http/method"
	"github.com/indigo-web/sparrow/http/mime"
	"github.com/indigo-web/sparrow/http/status"
	"github.com/indigo-web/sparrow/router"
	"github.com/indigo-web/sparrow/security"
	json "github.com/json-iterator/go"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"golang.org/x/crypto/bcrypt"
)

const name = "github.com/indigo-web/sparrow/cmd/sparrow"

type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// store is an in-memory collection of items shared by all the workers.
type store struct {
	mu    sync.RWMutex
	items map[string]Item
	next  int
}

func (s *store) get(params router.Params) http.Response {
	s.mu.RLock()
	item, found := s.items[params.Path["id"]]
	s.mu.RUnlock()

	if !found {
		return http.Error(status.NotFound("no item " + params.Path["id"]))
	}

	return http.NewBuilder(status.OK).JSON(item).Build()
}

func (s *store) list(router.Params) http.Response {
	s.mu.RLock()
	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	s.mu.RUnlock()

	return http.NewBuilder(status.OK).JSON(items).Build()
}

func (s *store) create(params router.Params) http.Response {
	contentType, _ := params.Request.Header("content-type")
	if !mime.Complies(mime.JSON, contentType) {
		return http.Error(status.BadRequest("expected " + mime.JSON + " body"))
	}

	var item Item
	if err := json.UnmarshalFromString(params.Body, &item); err != nil {
		return http.Error(status.BadRequest("malformed item: " + err.Error()))
	}

	s.mu.Lock()
	s.next++
	item.ID = strconv.Itoa(s.next)
	s.items[item.ID] = item
	s.mu.Unlock()

	return http.NewBuilder(status.Created).JSON(item).Build()
}

func (s *store) delete(params router.Params) http.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.items[params.Path["id"]]; !found {
		return http.Error(status.NotFound("no item " + params.Path["id"]))
	}

	delete(s.items, params.Path["id"])
	return http.NewBuilder(status.NoContent).Build()
}

func main() {
	cfg := config.Default()
	port := flag.Uint("port", uint(cfg.NET.Port), "port to listen on")
	flag.StringVar(&cfg.NET.Addr, "addr", cfg.NET.Addr, "address to bind to")
	flag.IntVar(&cfg.NET.ReadBufferSize, "buffer", cfg.NET.ReadBufferSize, "maximal request size in bytes")
	flag.IntVar(&cfg.Workers.Count, "workers", cfg.Workers.Count, "number of workers")
	user := flag.String("user", "toto", "username allowed to delete items")
	password := flag.String("password", "tata", "password of the user")
	otel := flag.Bool("otel", false, "route logs through the OpenTelemetry bridge")
	debug := flag.Bool("debug", false, "log every request")
	flag.Parse()

	cfg.NET.Port = uint16(*port)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if *otel {
		cfg.Logger = otelslog.NewLogger(name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		cfg.Logger.Error("cannot hash password", slog.Any("err", err))
		os.Exit(1)
	}

	items := &store{items: make(map[string]Item)}
	app := sparrow.New(cfg).
		Secure(security.Basic{
			Validator: security.Bcrypt(map[string][]byte{*user: hash}),
			Realm:     "sparrow",
		})

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		cfg.Logger.Info("shutting down")
		if err := app.Stop(); err != nil {
			cfg.Logger.Error("cannot stop", slog.Any("err", err))
		}
	}()

	err = app.Serve([]router.Route{
		{Method: method.GET, Template: "/items", Handler: router.HandlerFunc(items.list)},
		{Method: method.GET, Template: "/items/{id}", Handler: router.HandlerFunc(items.get)},
		{Method: method.POST, Template: "/items", Handler: router.HandlerFunc(items.create)},
		{Method: method.DELETE, Template: "/items/{id}", Handler: router.HandlerFunc(items.delete), Secured: true},
		{Method: method.GET, Template: "/panic", Handler: router.HandlerFunc(func(router.Params) http.Response {
			panic("as requested")
		})},
	})
	if err != nil {
		cfg.Logger.Error("serve", slog.Any("err", err))
		os.Exit(1)
	}
}
