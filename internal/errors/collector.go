package errors

import (
	"fmt"
	"html"
	"sync"
)

// FailureCollector collects render failures absorbed by boundaries so the
// development server can surface them in an overlay.
type FailureCollector struct {
	failures []*RenderFailure
	mutex    sync.RWMutex
}

// NewFailureCollector creates a new failure collector.
func NewFailureCollector() *FailureCollector {
	return &FailureCollector{
		failures: make([]*RenderFailure, 0),
	}
}

// Add adds a render failure to the collector. Nil failures are ignored.
func (fc *FailureCollector) Add(f *RenderFailure) {
	if f == nil {
		return
	}
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.failures = append(fc.failures, f)
}

// Failures returns all collected failures.
func (fc *FailureCollector) Failures() []*RenderFailure {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	// Return a copy to avoid race conditions
	result := make([]*RenderFailure, len(fc.failures))
	copy(result, fc.failures)
	return result
}

// FailuresByComponent returns failures for a specific component.
func (fc *FailureCollector) FailuresByComponent(component string) []*RenderFailure {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	var componentFailures []*RenderFailure
	for _, f := range fc.failures {
		if f.Component == component {
			componentFailures = append(componentFailures, f)
		}
	}
	return componentFailures
}

// HasFailures returns true if any failures have been collected.
func (fc *FailureCollector) HasFailures() bool {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	return len(fc.failures) > 0
}

// Count returns the number of collected failures.
func (fc *FailureCollector) Count() int {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	return len(fc.failures)
}

// Clear clears all failures. Called when boundaries are refreshed after a
// source change.
func (fc *FailureCollector) Clear() {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.failures = fc.failures[:0]
}

// Overlay generates HTML for the failure overlay shown by the preview
// server. Returns an empty string when there is nothing to show.
func (fc *FailureCollector) Overlay() string {
	if !fc.HasFailures() {
		return ""
	}

	out := `
<div id="rendershield-failure-overlay" style="
	position: fixed;
	top: 0;
	left: 0;
	width: 100%;
	height: 100%;
	background: rgba(0, 0, 0, 0.8);
	color: white;
	font-family: 'Monaco', 'Menlo', monospace;
	font-size: 14px;
	z-index: 9999;
	padding: 20px;
	box-sizing: border-box;
	overflow: auto;
">
	<div style="max-width: 1000px; margin: 0 auto;">
		<div style="display: flex; justify-content: space-between; align-items: center; margin-bottom: 20px;">
			<h2 style="margin: 0; color: #ff6b6b;">Render Failures</h2>
			<button onclick="document.getElementById('rendershield-failure-overlay').style.display='none'"
					style="background: none; border: 1px solid #ccc; color: white; padding: 5px 10px; cursor: pointer;">
				Close
			</button>
		</div>
		<div>`

	fc.mutex.RLock()
	for _, f := range fc.failures {
		kindColor := "#ff6b6b"
		if f.Kind == FailureKindPanic {
			kindColor = "#feca57"
		}

		detail := ""
		if f.Cause != nil {
			detail = html.EscapeString(f.Cause.Error())
		}

		out += fmt.Sprintf(`
			<div style="
				background: #2d3748;
				padding: 15px;
				margin-bottom: 15px;
				border-radius: 4px;
				border-left: 4px solid %s;
			">
				<div style="display: flex; justify-content: space-between; align-items: center; margin-bottom: 10px;">
					<span style="color: %s; font-weight: bold;">%s</span>
					<span style="color: #a0aec0; font-size: 12px;">%s</span>
				</div>
				<div style="color: #e2e8f0; margin-bottom: 5px;">
					<strong>%s</strong>
				</div>
				<div style="color: #a0aec0; font-size: 12px;">
					%s
				</div>
			</div>
		`, kindColor, kindColor, f.Kind, f.Timestamp.Format("15:04:05"), html.EscapeString(f.Component), detail)
	}
	fc.mutex.RUnlock()

	out += `
		</div>
	</div>
</div>`

	return out
}
