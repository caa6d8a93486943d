package patterns

import (
	"fmt"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

// Registry holds every compiled pattern group. It is built once at process
// start and read-only afterwards, so it is safe to share across concurrent
// filter invocations without locking. A construction error must be treated
// as fatal: a partially built registry would silently under-filter.
type Registry struct {
	Diagnostic   []Pattern
	Prescriptive []Pattern
	Alarm        []Pattern
	Ungrounded   []Pattern
	Grounded     []Pattern
	Injection    []Pattern
}

// New builds a registry from the built-in definitions.
func New() (*Registry, error) {
	return NewWithOverlay(Overlay{})
}

// NewWithOverlay builds a registry from the built-in definitions plus
// site-local additions. Overlay patterns can only add detections, never
// remove them.
func NewWithOverlay(o Overlay) (*Registry, error) {
	var (
		r   Registry
		err error
	)
	if r.Diagnostic, err = compile("diagnostic", safety.CategoryDiagnostic, append(diagnosticDefs(), o.Diagnostic...)); err != nil {
		return nil, err
	}
	if r.Prescriptive, err = compile("prescriptive", safety.CategoryPrescriptive, append(prescriptiveDefs(), o.Prescriptive...)); err != nil {
		return nil, err
	}
	if r.Alarm, err = compile("alarm", safety.CategoryAlarm, append(alarmDefs(), o.Alarm...)); err != nil {
		return nil, err
	}
	if r.Ungrounded, err = compile("ungrounded", safety.CategoryUngroundedClaim, append(ungroundedDefs(), o.Ungrounded...)); err != nil {
		return nil, err
	}
	if r.Grounded, err = compile("grounded", "", append(groundedDefs(), o.Grounded...)); err != nil {
		return nil, err
	}
	if r.Injection, err = compile("injection", "", append(injectionDefs(), o.Injection...)); err != nil {
		return nil, err
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	return &r, nil
}

// check rejects a registry with any empty detection group.
func (r *Registry) check() error {
	groups := map[string][]Pattern{
		"diagnostic":   r.Diagnostic,
		"prescriptive": r.Prescriptive,
		"alarm":        r.Alarm,
		"ungrounded":   r.Ungrounded,
		"grounded":     r.Grounded,
		"injection":    r.Injection,
	}
	for name, g := range groups {
		if len(g) == 0 {
			return fmt.Errorf("pattern group %s is empty", name)
		}
	}
	return nil
}

// Keyword returns the groups scanned by the keyword layer.
func (r *Registry) Keyword() [][]Pattern {
	return [][]Pattern{r.Diagnostic, r.Prescriptive, r.Alarm}
}
