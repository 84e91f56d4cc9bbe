package billing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"billgen/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	failOn int // 1-based render call that fails; 0 never
	calls  int
}

func (r *stubRenderer) Render(receipt models.GeneratedReceipt) ([]byte, error) {
	r.calls++
	if r.failOn != 0 && r.calls == r.failOn {
		return nil, errors.New("renderer exploded")
	}
	return []byte(fmt.Sprintf("bill %d gross %s", receipt.SequenceNumber, receipt.GrossAmount.Fixed())), nil
}

func (r *stubRenderer) Extension() string { return "pdf" }

type memoryEmitter struct {
	mu    sync.Mutex
	names []string
	files map[string][]byte
	err   error
}

func (e *memoryEmitter) Emit(ctx context.Context, name string, data []byte) error {
	if e.err != nil {
		return e.err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.files == nil {
		e.files = map[string][]byte{}
	}
	e.names = append(e.names, name)
	e.files[name] = data
	return nil
}

func TestGenerateTwoDayExample(t *testing.T) {
	emitter := &memoryEmitter{}
	var events []Emitted

	gen := NewGenerator(&stubRenderer{}, emitter,
		WithSeed(42),
		WithObserver(ObserverFunc(func(ctx context.Context, e Emitted) error {
			events = append(events, e)
			return nil
		})),
	)

	count, err := gen.Generate(context.Background(), sampleConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"Bill_01-06-2025_1011.pdf", "Bill_02-06-2025_1021.pdf"}, emitter.names)
	assert.Equal(t, "bill 1011 gross 160.00", string(emitter.files["Bill_01-06-2025_1011.pdf"]))

	require.Len(t, events, 2)
	for i, e := range events {
		assert.Equal(t, i+1, e.Count)
		assert.Equal(t, 2, e.Total)
		assert.Equal(t, models.Money(16000), e.Receipt.SubTotal)
		assert.Equal(t, e.Receipt.SubTotal, e.Receipt.GrossAmount)
		assert.GreaterOrEqual(t, e.Receipt.TableNumber, 1)
		assert.LessOrEqual(t, e.Receipt.TableNumber, 100)
	}
	assert.Equal(t, 1011, events[0].Receipt.SequenceNumber)
	assert.Equal(t, 1021, events[1].Receipt.SequenceNumber)
}

func TestGenerateCountIsDaysTimesBills(t *testing.T) {
	cfg := sampleConfig()
	cfg.EndDate = day(2025, 6, 30)
	cfg.BillsPerDay = 4

	emitter := &memoryEmitter{}
	count, err := NewGenerator(&stubRenderer{}, emitter).Generate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 120, count)
	assert.Len(t, emitter.files, 120)
}

func TestGenerateSameSeedSameReceipts(t *testing.T) {
	collect := func() []string {
		var out []string
		gen := NewGenerator(&stubRenderer{}, &memoryEmitter{}, WithSeed(7),
			WithObserver(ObserverFunc(func(ctx context.Context, e Emitted) error {
				out = append(out, fmt.Sprintf("%s/%d", e.Receipt.Time, e.Receipt.TableNumber))
				return nil
			})))
		_, err := gen.Generate(context.Background(), sampleConfig())
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, collect(), collect())
}

func TestGenerateStopsOnRenderFailure(t *testing.T) {
	cfg := sampleConfig()
	cfg.BillsPerDay = 2

	emitter := &memoryEmitter{}
	count, err := NewGenerator(&stubRenderer{failOn: 3}, emitter).Generate(context.Background(), cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 2, count)
	// earlier documents stay in place
	assert.Len(t, emitter.files, 2)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Render", genErr.Op)
	assert.Equal(t, "Bill_02-06-2025_1021.pdf", genErr.FileName)
	assert.Equal(t, 2, genErr.Generated)
}

func TestGenerateStopsOnEmitFailure(t *testing.T) {
	diskFull := errors.New("no space left on device")
	count, err := NewGenerator(&stubRenderer{}, &memoryEmitter{err: diskFull}).Generate(context.Background(), sampleConfig())

	assert.Zero(t, count)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, diskFull)
}

func TestGenerateRejectsInvalidConfiguration(t *testing.T) {
	cfg := sampleConfig()
	cfg.Items = nil

	renderer := &stubRenderer{}
	count, err := NewGenerator(renderer, &memoryEmitter{}).Generate(context.Background(), cfg)

	assert.Zero(t, count)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Zero(t, renderer.calls)
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gen := NewGenerator(&stubRenderer{}, &memoryEmitter{},
		WithObserver(ObserverFunc(func(ctx context.Context, e Emitted) error {
			if e.Count == 1 {
				cancel()
			}
			return nil
		})))

	count, err := gen.Generate(ctx, sampleConfig())
	assert.Equal(t, 1, count)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateObserverFailureAborts(t *testing.T) {
	boom := errors.New("ledger unavailable")
	gen := NewGenerator(&stubRenderer{}, &memoryEmitter{},
		WithObserver(ObserverFunc(func(ctx context.Context, e Emitted) error { return boom })))

	count, err := gen.Generate(context.Background(), sampleConfig())
	assert.Equal(t, 1, count)
	assert.ErrorIs(t, err, boom)
}

func TestGenerateDelaySpacesDocuments(t *testing.T) {
	cfg := sampleConfig()
	cfg.EndDate = day(2025, 6, 3)

	start := time.Now()
	count, err := NewGenerator(&stubRenderer{}, &memoryEmitter{}, WithDelay(20*time.Millisecond)).
		Generate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	// two pauses between three documents
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestGenerateLargeBatchStartsWithoutPlanning(t *testing.T) {
	cfg := sampleConfig()
	cfg.StartDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg.EndDate = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)
	cfg.BillsPerDay = 1 << 30

	var total int
	gen := NewGenerator(&stubRenderer{failOn: 3}, &memoryEmitter{},
		WithSeed(5),
		WithObserver(ObserverFunc(func(ctx context.Context, e Emitted) error {
			total = e.Total
			return nil
		})),
	)

	count, err := gen.Generate(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 2, count)
	assert.Equal(t, TotalBills(cfg), total)
}

func TestGenerationErrorMatchesCauseThroughUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&GenerationError{Op: "Emit", Err: cause})

	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrLastItem)
}
