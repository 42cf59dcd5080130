package platformadapter

import (
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type FactoryConfig struct {
	Simulation    bool
	Graph         GraphConfig
	DriveEndpoint string
	Now           func() time.Time
}

// Factory hands out fresh adapters. All live Meta adapters share one
// rate-limited Graph client.
type Factory struct {
	simulation    bool
	graph         *GraphClient
	driveEndpoint string
	now           func() time.Time
}

func NewFactory(cfg FactoryConfig) *Factory {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Factory{
		simulation:    cfg.Simulation,
		graph:         NewGraphClient(cfg.Graph),
		driveEndpoint: cfg.DriveEndpoint,
		now:           now,
	}
}

func (f *Factory) Simulated() bool {
	return f.simulation
}

func (f *Factory) Adapter(platform entities.Platform) (ports.PlatformAdapter, error) {
	if !entities.IsAdPlatform(platform) {
		return nil, domainerrors.ErrPlatformNotSupported
	}
	if f.simulation {
		return NewSimulatedAdapter(platform), nil
	}
	if platform == entities.PlatformMeta {
		return NewMetaAdapter(f.graph, f.now), nil
	}
	return GoogleAdsAdapter{}, nil
}

func (f *Factory) Inspector(platform entities.Platform) (ports.AccountInspector, error) {
	if platform != entities.PlatformMeta {
		return nil, domainerrors.ErrPlatformNotSupported
	}
	if f.simulation {
		return NewSimulatedAdapter(platform), nil
	}
	return NewMetaInspector(f.graph), nil
}

func (f *Factory) Drive() (ports.DriveAdapter, error) {
	if f.simulation {
		return SimulatedDriveAdapter{}, nil
	}
	return NewGoogleDriveAdapter(f.driveEndpoint), nil
}
