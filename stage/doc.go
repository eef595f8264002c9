// Package stage implements the pipeline steps of a planning run: meal
// planning via the text-completion port, recipe resolution via the catalog
// port, shopping list construction via the list-optimization port, and an
// optional nutrition estimate. Each stage is a pure function of the request,
// the session context snapshot and prior stage outputs; the orchestrator owns
// sequencing, retries sit inside each stage around its port calls.
package stage
