package dispatch

import (
	"context"

	"outbound-dispatcher/outbound/dispatch/application"
	"outbound-dispatcher/outbound/dispatch/domain"
	"outbound-dispatcher/outbound/dispatch/infra"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

type options struct {
	encoder domain.Encoder
	ledger  domain.TraceLedger
	sink    domain.OutcomeSink
	logger  logr.Logger
}

type Option func(*options)

// WithEncoder troca o encoder padrão (JSON).
func WithEncoder(enc domain.Encoder) Option {
	return func(o *options) { o.encoder = enc }
}

// WithLedger troca o ledger em memória padrão.
func WithLedger(l domain.TraceLedger) Option {
	return func(o *options) { o.ledger = l }
}

// WithOutcomeSink adiciona um espelho best-effort dos resultados (ex: Redis).
func WithOutcomeSink(s domain.OutcomeSink) Option {
	return func(o *options) { o.sink = s }
}

func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Dispatcher é a fachada pública. Lanes e ledger vivem enquanto ele viver.
type Dispatcher struct {
	svc    application.DispatchService
	pool   domain.LanePool
	ledger domain.TraceLedger
}

// New cria um Dispatcher com `capacity` lanes sobre o transport dado.
func New(transport domain.Transport, capacity int, opts ...Option) (*Dispatcher, error) {
	if transport == nil {
		return nil, domain.ErrNilTransport
	}
	pool, err := infra.NewLanePool(capacity)
	if err != nil {
		return nil, err
	}

	o := options{logger: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.encoder == nil {
		o.encoder = infra.NewJSONEncoder()
	}
	if o.ledger == nil {
		o.ledger = infra.NewMemoryTraceLedger()
	}

	return &Dispatcher{
		svc: application.DispatchService{
			Pool:      pool,
			Ledger:    o.ledger,
			Encoder:   o.encoder,
			Transport: transport,
			Sink:      o.sink,
			Logger:    o.logger.WithName("dispatcher"),
		},
		pool:   pool,
		ledger: o.ledger,
	}, nil
}

// Send bloqueia até haver lane livre e até o transporte terminar.
// Só devolve erro (*domain.EncodingError) quando a requisição não pôde ser serializada.
// ctx é repassado ao Transport; a espera por lane não é cancelável.
func (d *Dispatcher) Send(ctx context.Context, request any) error {
	return d.svc.Send(ctx, request)
}

// TraceSnapshot retorna os contadores de todas as lanes já usadas, ordenados por lane.
func (d *Dispatcher) TraceSnapshot() []domain.TraceRecord {
	return d.ledger.Snapshot()
}

func (d *Dispatcher) Capacity() int { return d.pool.Capacity() }
func (d *Dispatcher) InFlight() int { return d.pool.InFlight() }

// Collector expõe o ledger e o pool como métricas Prometheus.
func (d *Dispatcher) Collector() prometheus.Collector {
	return infra.NewLaneCollector(d.ledger, d.pool)
}

// Totals soma os contadores de um snapshot.
type Totals struct {
	Requests  uint64 `json:"requests"`
	Succeeded uint64 `json:"succeeded"`
	Failed    uint64 `json:"failed"`
}

func Sum(records []domain.TraceRecord) Totals {
	var t Totals
	for _, r := range records {
		t.Requests += r.RequestsCount
		t.Succeeded += r.SucceededRequestsCount
	}
	t.Failed = t.Requests - t.Succeeded
	return t
}
