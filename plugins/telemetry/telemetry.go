package telemetry

import (
	"sync"
	"time"

	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/plugin"
)

// Ensure Telemetry implements plugin.Plugin
var _ plugin.Plugin = (*Telemetry)(nil)

const (
	// Default configuration values
	defaultEnabled  = true
	defaultInterval = 1 * time.Minute
)

// Stats summarises the gestures seen so far.
type Stats struct {
	Matched   int
	Unmatched int
	ByAction  map[gesture.Action]int
	Last      []gesture.Direction
	LastAt    time.Time
}

// Telemetry counts gesture/triggered events and periodically logs a summary.
type Telemetry struct {
	api plugin.API

	// Configuration
	mutex    sync.RWMutex // Protects config and stats below
	enabled  bool
	interval time.Duration
	stats    Stats
	reported int // gestures covered by the last summary

	unsubscribe func()
	stopChan    chan struct{}  // Signals the reporter goroutine to stop
	wg          sync.WaitGroup // Waits for the goroutine to finish
}

// New creates a new instance of the Telemetry plugin.
func New() *Telemetry {
	return &Telemetry{
		enabled:  defaultEnabled,
		interval: defaultInterval,
		stats:    Stats{ByAction: make(map[gesture.Action]int)},
	}
}

// Name returns the unique name of the plugin.
func (p *Telemetry) Name() string {
	return "telemetry"
}

// Initialize reads configuration, subscribes to gesture telemetry and starts
// the reporter loop.
func (p *Telemetry) Initialize(api plugin.API) error {
	p.api = api
	pluginName := p.Name()

	p.mutex.Lock()
	if enabledVal, ok := api.GetPluginConfigValue(pluginName, "enabled"); ok {
		if boolVal, isBool := enabledVal.(bool); isBool {
			p.enabled = boolVal
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", pluginName, enabledVal, p.enabled)
		}
	}
	if intervalVal, ok := api.GetPluginConfigValue(pluginName, "interval"); ok {
		if strVal, isStr := intervalVal.(string); isStr {
			parsedInterval, err := time.ParseDuration(strVal)
			if err != nil {
				logger.Warnf("%s: Invalid format for 'interval' config ('%s'): %v. Using default (%v)", pluginName, strVal, err, p.interval)
			} else if parsedInterval <= 0 {
				logger.Warnf("%s: 'interval' config must be positive ('%s'). Using default (%v)", pluginName, strVal, p.interval)
			} else {
				p.interval = parsedInterval
			}
		} else {
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", pluginName, intervalVal, p.interval)
		}
	}
	isEnabled := p.enabled
	interval := p.interval
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", pluginName, isEnabled, interval)
	if !isEnabled {
		return nil
	}

	p.unsubscribe = api.SubscribeEvent(event.TypeGestureTriggered, p.record)
	p.stopChan = make(chan struct{})
	p.wg.Add(1)
	go p.reportLoop(interval)
	return nil
}

// Shutdown unsubscribes, stops the reporter goroutine and logs a final
// summary.
func (p *Telemetry) Shutdown() error {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	if p.stopChan != nil {
		close(p.stopChan)
		p.wg.Wait()
		p.stopChan = nil
	}
	p.report()
	return nil
}

// Stats returns a copy of the current counters.
func (p *Telemetry) Stats() Stats {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	out := p.stats
	out.ByAction = make(map[gesture.Action]int, len(p.stats.ByAction))
	for k, v := range p.stats.ByAction {
		out.ByAction[k] = v
	}
	out.Last = gesture.CloneSequence(p.stats.Last)
	return out
}

func (p *Telemetry) record(e event.Event) bool {
	data, ok := e.Data.(event.GestureTriggeredData)
	if !ok {
		logger.Warnf("%s: unexpected payload %T", p.Name(), e.Data)
		return false
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if data.Action == "" {
		p.stats.Unmatched++
	} else {
		p.stats.Matched++
		p.stats.ByAction[data.Action]++
	}
	p.stats.Last = gesture.CloneSequence(data.Sequence)
	p.stats.LastAt = data.At
	logger.DebugTagf("telemetry", "sequence=%s action=%s", gesture.Key(data.Sequence), data.Action)
	return false
}

func (p *Telemetry) reportLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.report()
		case <-p.stopChan:
			return
		}
	}
}

// report logs a summary when gestures arrived since the previous one.
func (p *Telemetry) report() {
	p.mutex.Lock()
	total := p.stats.Matched + p.stats.Unmatched
	if total == p.reported {
		p.mutex.Unlock()
		return
	}
	p.reported = total
	matched, unmatched := p.stats.Matched, p.stats.Unmatched
	p.mutex.Unlock()

	logger.InfoTagf("telemetry", "%d gestures: %d matched, %d unmatched", total, matched, unmatched)
}
