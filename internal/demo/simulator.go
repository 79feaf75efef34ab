package demo

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"watchtower/internal/domain"
)

// Publisher receives regenerated snapshots from the simulator. The
// topology service implements it.
type Publisher interface {
	Refresh(ctx context.Context, topo *domain.Topology) error
}

// Simulator periodically mutates a working copy of the demo topology and
// republishes it, so a demo deployment shows live-looking churn: link
// utilization wanders each tick and occasionally a non-critical device
// flips between up and degraded.
type Simulator struct {
	publisher Publisher
	interval  time.Duration
	logger    *log.Logger
	rng       *rand.Rand

	topo *domain.Topology
}

func NewSimulator(publisher Publisher, interval time.Duration, logger *log.Logger) *Simulator {
	return &Simulator{
		publisher: publisher,
		interval:  interval,
		logger:    logger.WithPrefix("simulator"),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		topo:      Generate(),
	}
}

// Run ticks until ctx is cancelled. Each tick publishes a fresh snapshot;
// publish errors are logged and the simulator keeps going.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.Info("starting", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Simulator) tick(ctx context.Context) {
	s.jitterUtilization()
	if s.rng.Float64() < 0.10 {
		s.flipDevice()
	}

	if err := s.publisher.Refresh(ctx, snapshot(s.topo)); err != nil {
		s.logger.Error("publish failed", "err", err)
	}
}

func (s *Simulator) jitterUtilization() {
	for i := range s.topo.Connections {
		c := &s.topo.Connections[i]
		c.Utilization = clamp(c.Utilization+s.rng.Float64()*10-5, 1, 95)
		c.InBps = int64(c.Utilization / 100 * float64(c.SpeedMbps) * 1_000_000)
	}
	for i := range s.topo.ExternalLinks {
		e := &s.topo.ExternalLinks[i]
		e.Utilization = clamp(e.Utilization+s.rng.Float64()*10-5, 1, 95)
	}
}

// flipDevice toggles one eligible device between up and degraded. Core
// and firewall devices stay up so the demo never looks like an outage.
func (s *Simulator) flipDevice() {
	var eligible []string
	for id := range s.topo.Devices {
		if strings.HasPrefix(id, "core-") || strings.HasPrefix(id, "fw-") {
			continue
		}
		eligible = append(eligible, id)
	}
	if len(eligible) == 0 {
		return
	}

	id := eligible[s.rng.Intn(len(eligible))]
	d := s.topo.Devices[id]
	if d.Status == domain.DeviceStatusDegraded {
		d.Status = domain.DeviceStatusUp
	} else {
		d.Status = domain.DeviceStatusDegraded
	}
	now := time.Now()
	d.LastSeen = &now
	s.topo.Devices[id] = d
	s.topo.Summarize()

	s.logger.Debug("device status changed", "device", id, "status", d.Status)
}

// snapshot deep-copies the working topology so the published snapshot is
// immutable from the subscriber's point of view.
func snapshot(t *domain.Topology) *domain.Topology {
	out := domain.NewTopology()
	out.Version = t.Version

	out.Clusters = make([]domain.Cluster, len(t.Clusters))
	for i, c := range t.Clusters {
		c.DeviceIDs = append([]string(nil), c.DeviceIDs...)
		out.Clusters[i] = c
	}
	for id, d := range t.Devices {
		if d.Stats != nil {
			stats := *d.Stats
			d.Stats = &stats
		}
		if d.LastSeen != nil {
			seen := *d.LastSeen
			d.LastSeen = &seen
		}
		out.Devices[id] = d
	}
	out.Connections = append([]domain.Connection(nil), t.Connections...)
	out.ExternalLinks = append([]domain.ExternalLink(nil), t.ExternalLinks...)
	out.Summarize()
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
