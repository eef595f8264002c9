package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// OfflinePlanner is a TextCompletion that answers planning prompts locally
// with a deterministic rotating menu. It keeps the system fully usable
// without any model API key and mirrors the JSON shape a real model is asked
// to produce.
type OfflinePlanner struct{}

// NewOfflinePlanner returns the offline planner.
func NewOfflinePlanner() *OfflinePlanner {
	return &OfflinePlanner{}
}

var daysPattern = regexp.MustCompile(`(\d+)-day`)

var offlineMenus = map[string][]string{
	"breakfast": {"Oatmeal with Berries", "Avocado Toast", "Greek Yogurt Parfait", "Vegetable Omelette", "Banana Smoothie"},
	"lunch":     {"Greek Salad", "Veggie Wrap", "Lentil Soup", "Quinoa Bowl", "Caprese Sandwich"},
	"dinner":    {"Pasta Primavera", "Vegetable Curry", "Tofu Stir Fry", "Grilled Chicken with Vegetables", "Baked Salmon with Rice"},
}

// Complete implements TextCompletion. The requested day count is read back
// out of the prompt; vegetarian and vegan prompts skip meat dishes.
func (p *OfflinePlanner) Complete(ctx context.Context, req TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	days := 3
	if m := daysPattern.FindStringSubmatch(req.Prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			days = n
		}
	}
	meatFree := strings.Contains(strings.ToLower(req.Prompt), "vegetarian") ||
		strings.Contains(strings.ToLower(req.Prompt), "vegan")

	type mealJSON struct {
		Day         int    `json:"day"`
		MealType    string `json:"meal_type"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var meals []mealJSON
	for day := 1; day <= days; day++ {
		for _, mealType := range []string{"breakfast", "lunch", "dinner"} {
			name := pickOfflineMeal(mealType, day, meatFree)
			meals = append(meals, mealJSON{
				Day:         day,
				MealType:    mealType,
				Name:        name,
				Description: fmt.Sprintf("A simple %s option.", mealType),
			})
		}
	}

	doc, err := json.Marshal(map[string]any{
		"days":    days,
		"summary": fmt.Sprintf("A %d-day plan from the offline menu rotation.", days),
		"meals":   meals,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return string(doc), nil
}

func pickOfflineMeal(mealType string, day int, meatFree bool) string {
	menu := offlineMenus[mealType]
	for i := 0; i < len(menu); i++ {
		name := menu[(day-1+i)%len(menu)]
		if meatFree && containsAny(strings.ToLower(name), "chicken", "salmon", "meat", "fish") {
			continue
		}
		return name
	}
	return menu[(day-1)%len(menu)]
}
