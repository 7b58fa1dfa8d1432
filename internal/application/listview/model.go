package listview

import (
	"context"
	"sync"
	"time"

	"github.com/gestrack/gestrack-web/pkg/logger"
)

// DefaultQuietWindow es la ventana de silencio del debounce de búsqueda.
const DefaultQuietWindow = 300 * time.Millisecond

// State estado observable del modelo.
type State string

// Estados posibles.
const (
	StateIdle       State = "idle"
	StateDebouncing State = "debouncing"
	StateFetching   State = "fetching"
)

// Page es el resultado completo de una consulta: el conjunto de filas
// reemplaza al anterior en bloque, nunca se mezcla incrementalmente.
type Page struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Fetcher ejecuta la consulta para un descriptor. El error que devuelva debe
// ser presentable: su mensaje se muestra tal cual en la vista.
type Fetcher func(ctx context.Context, d Descriptor) (Page, error)

// Snapshot es la foto consistente del modelo que consume la capa de vistas.
type Snapshot struct {
	State      State      `json:"state"`
	Descriptor Descriptor `json:"-"`
	Page       Page       `json:"page"`
	Error      string     `json:"error,omitempty"`
}

// Model es la máquina de estados de una vista de listado montada:
//
//	Idle → Debouncing (tecleo) → Fetching (ventana vencida) → Idle
//	Idle → Fetching (filtro/orden/página, sin debounce)   → Idle
//
// Cada fetch lleva número de secuencia; solo el más reciente puede aplicar
// su resultado, de modo que una respuesta lenta nunca pisa estado más
// fresco. Close descarta cualquier resultado posterior: un modelo cerrado
// no se vuelve a tocar.
type Model struct {
	mu sync.Mutex

	cfg   Config
	d     Descriptor
	state State
	page  Page
	err   string

	pendingSearch string
	seq           uint64
	timer         Timer
	quiet         time.Duration
	fetch         Fetcher

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	log *logger.Logger
}

// Option configura el modelo al construirlo.
type Option func(*Model)

// WithQuietWindow cambia la ventana de debounce.
func WithQuietWindow(d time.Duration) Option {
	return func(m *Model) { m.quiet = d }
}

// WithTimerFactory inyecta el temporizador (tests).
func WithTimerFactory(f TimerFactory) Option {
	return func(m *Model) { m.timer = f(m.settle) }
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Model) { m.log = l }
}

// NewModel monta el modelo con su descriptor inicial. No lanza el primer
// fetch: el llamador decide cuándo con Refresh.
func NewModel(cfg Config, initial Descriptor, fetch Fetcher, opts ...Option) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		cfg:    cfg,
		d:      initial,
		state:  StateIdle,
		quiet:  DefaultQuietWindow,
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.timer == nil {
		m.timer = newRealTimer(m.settle)
	}
	return m
}

// Descriptor devuelve el descriptor vigente (el último asentado).
func (m *Model) Descriptor() Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d
}

// Snapshot devuelve la foto actual del modelo.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, Descriptor: m.d, Page: m.page, Error: m.err}
}

// InputSearch registra una pulsación en el campo de búsqueda libre. No
// consulta: arma (o reinicia) la ventana de silencio; la consulta sale una
// única vez cuando el usuario deja de teclear.
func (m *Model) InputSearch(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.pendingSearch = term
	m.state = StateDebouncing
	m.timer.Reset(m.quiet)
}

// settle corre al vencer la ventana de silencio: asienta el término
// pendiente en el descriptor y lanza la consulta.
func (m *Model) settle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.state != StateDebouncing {
		return
	}
	m.d = m.d.WithSearch(m.pendingSearch)
	m.startFetchLocked()
}

// SetFilter aplica un filtro y consulta de inmediato, sin debounce.
func (m *Model) SetFilter(name, value string) {
	m.applyNow(func(d Descriptor) Descriptor { return d.WithFilter(name, value) })
}

// ToggleSort aplica un clic de ordenamiento y consulta de inmediato.
func (m *Model) ToggleSort(field string) {
	m.applyNow(func(d Descriptor) Descriptor { return d.ToggleSort(field) })
}

// SetPage cambia de página y consulta de inmediato.
func (m *Model) SetPage(n int) {
	m.applyNow(func(d Descriptor) Descriptor { return d.WithPage(n) })
}

// SetPageSize cambia el tamaño de página y consulta de inmediato.
func (m *Model) SetPageSize(n int) {
	m.applyNow(func(d Descriptor) Descriptor { return d.WithPageSize(n) })
}

// Refresh repite la consulta con el descriptor vigente. Se usa para el
// fetch inicial al montar la vista y para reintentos explícitos del
// usuario; el modelo nunca reintenta solo.
func (m *Model) Refresh() {
	m.applyNow(func(d Descriptor) Descriptor { return d })
}

func (m *Model) applyNow(mut func(Descriptor) Descriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.d = mut(m.d)
	m.startFetchLocked()
}

// startFetchLocked lanza la consulta con el descriptor vigente. Requiere
// m.mu tomado.
func (m *Model) startFetchLocked() {
	m.seq++
	seq := m.seq
	d := m.d
	m.state = StateFetching

	go func() {
		page, err := m.fetch(m.ctx, d)

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed || seq != m.seq {
			// Respuesta obsoleta: ya salió una consulta más nueva o la
			// vista se desmontó. No tocar el estado.
			m.log.Debug().Str("view", m.cfg.View).Uint64("seq", seq).Msg("resultado obsoleto descartado")
			return
		}
		if m.state == StateFetching {
			// Si el usuario volvió a teclear mientras la consulta estaba
			// en vuelo, el modelo ya está en Debouncing y la ventana de
			// silencio sigue viva. Solo se vuelve a Idle desde Fetching.
			m.state = StateIdle
		}
		if err != nil {
			m.err = err.Error()
			return
		}
		m.err = ""
		m.page = page
	}()
}

// Prime siembra el resultado inicial cuando el llamador ya consultó la
// página de forma síncrona al montar la vista, evitando un segundo fetch.
func (m *Model) Prime(page Page) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.page = page
	m.err = ""
	m.state = StateIdle
}

// Close desmonta la vista: cancela el debounce pendiente y el contexto de
// las consultas en vuelo. Tras Close ningún resultado tardío se aplica.
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.timer.Stop()
	m.cancel()
}
