package testing

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/imamik/dbprov/internal/config"
	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning"
)

// TB is the subset of testing.TB the helpers need. Both *testing.T and
// ginkgo's GinkgoT() satisfy it.
type TB interface {
	Helper()
	Cleanup(func())
}

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewContext returns a provisioning context with test timeouts, a
// RecordingObserver and a static public IP of 203.0.113.10/32.
func NewContext(t TB, cfg *config.Config, infra rds.ControlPlane) *provisioning.Context {
	t.Helper()
	pctx := provisioning.NewContext(TestContext(t), cfg, infra)
	pctx.Timeouts = config.TestTimeouts()
	pctx.Observer = NewRecordingObserver()
	pctx.PublicIP = StaticPublicIP("203.0.113.10/32")
	return pctx
}

// StaticPublicIP is a provisioning.PublicIPSource returning a fixed CIDR.
type StaticPublicIP string

// CIDR implements provisioning.PublicIPSource.
func (s StaticPublicIP) CIDR(context.Context) (string, error) {
	return string(s), nil
}

// FailingPublicIP is a provisioning.PublicIPSource that always fails.
type FailingPublicIP struct{ Err error }

// CIDR implements provisioning.PublicIPSource.
func (f FailingPublicIP) CIDR(context.Context) (string, error) {
	return "", f.Err
}

type recording struct {
	mu       sync.Mutex
	events   []provisioning.Event
	messages []string
}

// RecordingObserver is a provisioning.Observer that keeps every event and
// message. Observers derived with WithFields share the same log.
type RecordingObserver struct {
	log    *recording
	fields map[string]string
}

// NewRecordingObserver returns an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{log: &recording{}}
}

// Observer returns the RecordingObserver of a context built by NewContext.
func Observer(ctx *provisioning.Context) *RecordingObserver {
	return ctx.Observer.(*RecordingObserver)
}

// Printf implements provisioning.Logger.
func (o *RecordingObserver) Printf(format string, v ...any) {
	o.log.mu.Lock()
	defer o.log.mu.Unlock()
	o.log.messages = append(o.log.messages, fmt.Sprintf(format, v...))
}

// Event implements provisioning.Observer.
func (o *RecordingObserver) Event(event provisioning.Event) {
	fields := maps.Clone(o.fields)
	if fields == nil {
		fields = map[string]string{}
	}
	maps.Copy(fields, event.Fields)
	event.Fields = fields

	o.log.mu.Lock()
	defer o.log.mu.Unlock()
	o.log.events = append(o.log.events, event)
}

// Progress implements provisioning.Observer.
func (o *RecordingObserver) Progress(phase string, current, total int) {
	o.Printf("[%s] Progress: %d/%d", phase, current, total)
}

// WithFields implements provisioning.Observer.
func (o *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := maps.Clone(o.fields)
	if merged == nil {
		merged = map[string]string{}
	}
	maps.Copy(merged, fields)
	return &RecordingObserver{log: o.log, fields: merged}
}

// Events returns every recorded event.
func (o *RecordingObserver) Events() []provisioning.Event {
	o.log.mu.Lock()
	defer o.log.mu.Unlock()
	return slices.Clone(o.log.events)
}

// EventsOfType returns the recorded events of one type.
func (o *RecordingObserver) EventsOfType(t provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range o.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns every Printf line.
func (o *RecordingObserver) Messages() []string {
	o.log.mu.Lock()
	defer o.log.mu.Unlock()
	return slices.Clone(o.log.messages)
}
