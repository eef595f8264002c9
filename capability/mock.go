package capability

import (
	"context"
	"fmt"
	"sync"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// MockTextCompletion is a deterministic in-memory TextCompletion for tests.
// Register canned completions per prompt with AddResponse; unregistered
// prompts fall back to a generated echo so pipeline tests never depend on a
// live model.
type MockTextCompletion struct {
	mu          sync.Mutex
	responses   map[string]string
	defaultResp string
	err         error
	calls       int
	failFirst   int
}

// NewMockTextCompletion constructs an empty mock.
func NewMockTextCompletion() *MockTextCompletion {
	return &MockTextCompletion{responses: make(map[string]string)}
}

// AddResponse registers a canned completion for an exact prompt.
func (m *MockTextCompletion) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// SetDefault registers the completion returned for any unregistered prompt,
// replacing the generated echo.
func (m *MockTextCompletion) SetDefault(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResp = response
}

// SetError makes every call fail with err until cleared with nil.
func (m *MockTextCompletion) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FailFirst makes the next n calls fail with ErrProvider before succeeding,
// for retry-policy tests.
func (m *MockTextCompletion) FailFirst(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFirst = n
}

// Calls reports how many times Complete was invoked.
func (m *MockTextCompletion) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Complete implements TextCompletion.
func (m *MockTextCompletion) Complete(ctx context.Context, req TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failFirst > 0 {
		m.failFirst--
		return "", fmt.Errorf("%w: transient mock failure", ErrProvider)
	}
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[req.Prompt]; ok {
		return resp, nil
	}
	if m.defaultResp != "" {
		return m.defaultResp, nil
	}
	return fmt.Sprintf("Mock response to: %s", req.Prompt), nil
}

// MockCatalogSearch is a deterministic CatalogSearch for tests. With no
// canned results it delegates to the static catalog; SetError forces the
// failure path.
type MockCatalogSearch struct {
	mu      sync.Mutex
	results map[string][]core.Recipe
	err     error
	static  *StaticCatalog
	calls   int
}

// NewMockCatalogSearch constructs the mock.
func NewMockCatalogSearch() *MockCatalogSearch {
	return &MockCatalogSearch{results: make(map[string][]core.Recipe), static: NewStaticCatalog()}
}

// AddResult registers canned recipes for an exact query string.
func (m *MockCatalogSearch) AddResult(query string, recipes []core.Recipe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = recipes
}

// SetError makes every call fail with err until cleared with nil.
func (m *MockCatalogSearch) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Search was invoked.
func (m *MockCatalogSearch) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Search implements CatalogSearch.
func (m *MockCatalogSearch) Search(ctx context.Context, query CatalogQuery) ([]core.Recipe, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	recipes, ok := m.results[query.Query]
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if ok {
		return recipes, nil
	}
	return m.static.Search(ctx, query)
}
