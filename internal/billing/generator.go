package billing

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"billgen/internal/logger"
	"billgen/pkg/models"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Renderer turns one receipt into a document in a fixed page layout.
type Renderer interface {
	Render(receipt models.GeneratedReceipt) ([]byte, error)
	Extension() string
}

// Emitter hands a rendered document to its destination.
type Emitter interface {
	Emit(ctx context.Context, name string, data []byte) error
}

// Emitted describes a document that has just been emitted.
type Emitted struct {
	Receipt  models.GeneratedReceipt
	FileName string
	Count    int // documents emitted so far, including this one
	Total    int
}

// Observer is notified after every emitted document, in order.
type Observer interface {
	Observe(ctx context.Context, e Emitted) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, e Emitted) error

// Observe calls f(ctx, e).
func (f ObserverFunc) Observe(ctx context.Context, e Emitted) error {
	return f(ctx, e)
}

// Generator runs the batch loop: one receipt per slot, strictly sequential.
type Generator struct {
	renderer  Renderer
	emitter   Emitter
	observers []Observer
	rng       *rand.Rand
	delay     time.Duration
	log       zerolog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithObserver registers an observer. Observers run in registration order.
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		g.observers = append(g.observers, o)
	}
}

// WithRand sets the source for times and table numbers.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithSeed makes times and table numbers reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithDelay spaces documents at least d apart. Zero disables the pause.
func WithDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.delay = d
	}
}

// WithLogger replaces the component logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// NewGenerator creates a Generator writing renderer output to emitter.
func NewGenerator(renderer Renderer, emitter Emitter, opts ...Option) *Generator {
	g := &Generator{
		renderer: renderer,
		emitter:  emitter,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:      logger.WithComponent("generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces one document per slot of cfg and returns how many were emitted.
// The first failure stops the batch; documents already emitted are left as they are.
func (g *Generator) Generate(ctx context.Context, cfg models.BillConfiguration) (int, error) {
	if err := Validate(cfg); err != nil {
		return 0, &GenerationError{Op: "Validate", Err: err}
	}

	if cfg.EndDate.Before(cfg.StartDate) {
		g.log.Warn().
			Time("start_date", cfg.StartDate).
			Time("end_date", cfg.EndDate).
			Msg("End date is before start date, generating forward from start date over the same span")
	}
	if cfg.BillsPerDay >= collisionBillsPerDay {
		g.log.Warn().
			Int("bills_per_day", cfg.BillsPerDay).
			Msg("Bill numbers may repeat across consecutive days at 10 or more bills per day")
	}

	total := TotalBills(cfg)
	ext := g.renderer.Extension()

	g.log.Info().
		Int("days", DayCount(cfg.StartDate, cfg.EndDate)).
		Int("bills_per_day", cfg.BillsPerDay).
		Int("total", total).
		Str("format", ext).
		Msg("Starting bill generation")

	var limiter *rate.Limiter
	if g.delay > 0 {
		limiter = rate.NewLimiter(rate.Every(g.delay), 1)
		limiter.Allow() // spend the burst so the first pause follows the first document
	}

	count := 0
	err := EachSlot(cfg, func(slot Slot) error {
		if err := ctx.Err(); err != nil {
			return &GenerationError{Op: "Generate", Err: err, Generated: count}
		}

		receipt := NewReceipt(cfg, slot, g.rng)
		name := receipt.FileName(ext)

		data, err := g.renderer.Render(receipt)
		if err != nil {
			return g.fail("Render", name, count, err)
		}

		if err := g.emitter.Emit(ctx, name, data); err != nil {
			return g.fail("Emit", name, count, err)
		}
		count++

		event := Emitted{Receipt: receipt, FileName: name, Count: count, Total: total}
		for _, o := range g.observers {
			if err := o.Observe(ctx, event); err != nil {
				return g.fail("Observe", name, count, err)
			}
		}

		g.log.Debug().
			Str("file", name).
			Int("bill_no", receipt.SequenceNumber).
			Str("time", receipt.Time).
			Int("table", receipt.TableNumber).
			Int("count", count).
			Msg("Bill generated")

		if limiter != nil && count < total {
			if err := limiter.Wait(ctx); err != nil {
				return &GenerationError{Op: "Throttle", Err: err, Generated: count}
			}
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	g.log.Info().Int("generated", count).Msg("Bill generation completed")
	return count, nil
}

func (g *Generator) fail(op, name string, count int, err error) error {
	g.log.Error().
		Err(err).
		Str("op", op).
		Str("file", name).
		Int("generated", count).
		Msg("Bill generation failed")

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Op: op, Err: err, FileName: name, Generated: count}
}
