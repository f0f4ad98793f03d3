// Package metrics экспортирует метрики симуляции в Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/annel0/arpg-engine/internal/game"
)

// FrameMetrics реализует game.FrameObserver.
//
// Метрики:
// * arpg_frame_duration_seconds - histogram реального времени кадра
// * arpg_frames_total - counter выполненных кадров
// * arpg_npcs / arpg_projectiles / arpg_entities - gauge размера мира
// * arpg_deaths_total, arpg_entities_removed_total - counters
// * arpg_events_total{type} - counter событий движка
type FrameMetrics struct {
	frameDuration prometheus.Histogram
	frames        prometheus.Counter
	npcs          prometheus.Gauge
	projectiles   prometheus.Gauge
	entities      prometheus.Gauge
	deaths        prometheus.Counter
	removed       prometheus.Counter
	events        *prometheus.CounterVec
}

// NewFrameMetrics создаёт метрики и регистрирует их в reg.
// Если reg == nil, используется дефолтный регистр.
func NewFrameMetrics(reg prometheus.Registerer) *FrameMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	const ns = "arpg"
	fm := &FrameMetrics{
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "frame_duration_seconds",
			Help:      "Реальное время обработки одного кадра.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033},
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frames_total",
			Help:      "Общее число выполненных кадров.",
		}),
		npcs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "npcs",
			Help:      "Количество NPC в текущем мире.",
		}),
		projectiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "projectiles",
			Help:      "Количество снарядов в текущем мире.",
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "entities",
			Help:      "Общее количество сущностей в текущем мире.",
		}),
		deaths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "deaths_total",
			Help:      "Общее число погибших NPC.",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "entities_removed_total",
			Help:      "Сущностей, удалённых из мира (NPC, снаряды, подобранные предметы).",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "events_total",
			Help:      "События движка по типам.",
		}, []string{"type"}),
	}

	reg.MustRegister(fm.frameDuration, fm.frames, fm.npcs, fm.projectiles, fm.entities, fm.deaths, fm.removed, fm.events)
	return fm
}

// ObserveFrame обновляет метрики по статистике кадра
func (fm *FrameMetrics) ObserveFrame(stats game.FrameStats) {
	fm.frameDuration.Observe(stats.Duration.Seconds())
	fm.frames.Inc()
	fm.npcs.Set(float64(stats.NPCs))
	fm.projectiles.Set(float64(stats.Projectiles))
	fm.entities.Set(float64(stats.Entities))
	if stats.Deaths > 0 {
		fm.deaths.Add(float64(stats.Deaths))
	}
	if stats.Removed > 0 {
		fm.removed.Add(float64(stats.Removed))
	}
}

// ObserveEvents считает события, забранные из движка
func (fm *FrameMetrics) ObserveEvents(events []game.Event) {
	for _, ev := range events {
		fm.events.WithLabelValues(ev.GetType().String()).Inc()
	}
}
