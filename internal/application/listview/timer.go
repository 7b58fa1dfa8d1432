package listview

import "time"

// Timer es el temporizador cancelable que posee el modelo para el debounce
// de búsqueda. Se abstrae para que los tests puedan disparar la ventana de
// silencio de forma determinista, sin dormir.
type Timer interface {
	// Reset reprograma el disparo a d desde ahora. Cada pulsación de
	// búsqueda reinicia la ventana completa.
	Reset(d time.Duration)
	// Stop cancela el disparo pendiente, si lo hay.
	Stop()
}

// TimerFactory construye el Timer con el callback que dispara al vencer.
type TimerFactory func(fn func()) Timer

type realTimer struct {
	t *time.Timer
}

// newRealTimer crea un Timer sobre time.AfterFunc, inicialmente detenido.
func newRealTimer(fn func()) Timer {
	t := time.AfterFunc(time.Hour, fn)
	t.Stop()
	return &realTimer{t: t}
}

func (r *realTimer) Reset(d time.Duration) { r.t.Reset(d) }
func (r *realTimer) Stop()                 { r.t.Stop() }
