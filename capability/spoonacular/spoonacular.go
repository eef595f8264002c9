// Package spoonacular implements the catalog-search port against the
// Spoonacular recipe API.
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

const defaultBaseURL = "https://api.spoonacular.com/recipes"

// Options configure the Spoonacular client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a CatalogSearch implementation backed by the Spoonacular
// complexSearch endpoint.
type Client struct {
	apiKey string
	opts   Options
}

// New creates a Spoonacular catalog client.
func New(apiKey string, optFns ...func(o *Options)) *Client {
	opts := Options{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{apiKey: apiKey, opts: opts}
}

type searchResponse struct {
	Results []struct {
		ID                  int    `json:"id"`
		Title               string `json:"title"`
		Summary             string `json:"summary"`
		SourceURL           string `json:"sourceUrl"`
		ExtendedIngredients []struct {
			Name string `json:"name"`
		} `json:"extendedIngredients"`
	} `json:"results"`
}

// Search implements capability.CatalogSearch.
func (c *Client) Search(ctx context.Context, query capability.CatalogQuery) ([]core.Recipe, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: spoonacular api key not configured", capability.ErrProvider)
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("query", query.Query)
	params.Set("addRecipeInformation", "true")
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	params.Set("number", strconv.Itoa(maxResults))
	if diet := dietParam(query.DietaryRestrictions); diet != "" {
		params.Set("diet", diet)
	}
	if query.Cuisine != "" {
		params.Set("cuisine", query.Cuisine)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/complexSearch?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", capability.ErrProvider, err)
	}

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", capability.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", capability.ErrProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: spoonacular throttled", capability.ErrRateLimited)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", capability.ErrNotFound, query.Query)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: spoonacular status %d", capability.ErrProvider, resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", capability.ErrProvider, err)
	}

	recipes := make([]core.Recipe, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		recipe := core.Recipe{
			ID:        strconv.Itoa(r.ID),
			Title:     r.Title,
			Summary:   r.Summary,
			SourceURL: r.SourceURL,
		}
		for _, ing := range r.ExtendedIngredients {
			recipe.Ingredients = append(recipe.Ingredients, ing.Name)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// dietParam maps dietary restrictions onto Spoonacular's diet parameter,
// preferring the strictest match.
func dietParam(restrictions []string) string {
	var vegetarian bool
	for _, r := range restrictions {
		switch strings.ToLower(r) {
		case "vegan":
			return "vegan"
		case "vegetarian":
			vegetarian = true
		}
	}
	if vegetarian {
		return "vegetarian"
	}
	return ""
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
