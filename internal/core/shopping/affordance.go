package shopping

import (
	"strings"

	"shopping-list-api/internal/pkg/common"
)

// category 分類定義：鍵、顯示名稱、圖示
type category struct {
	key   string
	label string
	icon  string
}

var categories = map[string]category{
	"produce":  {key: "produce", label: "蔬果", icon: "leaf"},
	"dairy":    {key: "dairy", label: "乳蛋", icon: "milk"},
	"meat":     {key: "meat", label: "肉品海鮮", icon: "drumstick"},
	"bakery":   {key: "bakery", label: "烘焙", icon: "bread"},
	"pantry":   {key: "pantry", label: "乾貨調味", icon: "jar"},
	"frozen":   {key: "frozen", label: "冷凍", icon: "snowflake"},
	"beverage": {key: "beverage", label: "飲品", icon: "cup"},
	"other":    {key: "other", label: "其他", icon: "basket"},
}

// ResolveAffordance 將食材名稱對應到呈現用的分類與圖示
// 呼叫端帶回的既有鍵（例如編輯流程）優先於名稱推斷；純函數、無副作用
func ResolveAffordance(ingredientName, submittedCategoryKey, submittedIconKey string) common.Affordance {
	if submittedCategoryKey != "" {
		cat, ok := categories[submittedCategoryKey]
		if !ok {
			cat = categories["other"]
			cat.key = submittedCategoryKey
		}
		icon := cat.icon
		if submittedIconKey != "" {
			icon = submittedIconKey
		}
		return common.Affordance{CategoryKey: cat.key, CategoryLabel: cat.label, IconKey: icon}
	}

	cat := classify(ingredientName)
	icon := cat.icon
	if submittedIconKey != "" {
		icon = submittedIconKey
	}
	return common.Affordance{CategoryKey: cat.key, CategoryLabel: cat.label, IconKey: icon}
}

// classify 名稱推斷：先查完全相符，再依關鍵字做子字串比對
func classify(name string) category {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return categories["other"]
	}

	if key, ok := exactMatch[name]; ok {
		return categories[key]
	}

	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return categories[entry.key]
		}
	}

	return categories["other"]
}

var exactMatch = map[string]string{
	// 蔬果
	"apple":        "produce",
	"apples":       "produce",
	"banana":       "produce",
	"bananas":      "produce",
	"orange":       "produce",
	"oranges":      "produce",
	"lemon":        "produce",
	"lemons":       "produce",
	"avocado":      "produce",
	"tomato":       "produce",
	"tomatoes":     "produce",
	"potato":       "produce",
	"potatoes":     "produce",
	"onion":        "produce",
	"onions":       "produce",
	"garlic":       "produce",
	"lettuce":      "produce",
	"spinach":      "produce",
	"broccoli":     "produce",
	"carrot":       "produce",
	"carrots":      "produce",
	"celery":       "produce",
	"cucumber":     "produce",
	"mushrooms":    "produce",
	"corn":         "produce",
	"grapes":       "produce",
	"strawberries": "produce",
	"blueberries":  "produce",
	"ginger":       "produce",
	"basil":        "produce",
	"cilantro":     "produce",
	"zucchini":     "produce",

	// 乳蛋
	"milk":         "dairy",
	"eggs":         "dairy",
	"egg":          "dairy",
	"butter":       "dairy",
	"cheese":       "dairy",
	"yogurt":       "dairy",
	"cream cheese": "dairy",
	"sour cream":   "dairy",
	"heavy cream":  "dairy",

	// 肉品海鮮
	"chicken":       "meat",
	"beef":          "meat",
	"pork":          "meat",
	"turkey":        "meat",
	"bacon":         "meat",
	"sausage":       "meat",
	"ham":           "meat",
	"steak":         "meat",
	"salmon":        "meat",
	"shrimp":        "meat",
	"tuna":          "meat",
	"fish":          "meat",
	"ground beef":   "meat",
	"ground turkey": "meat",
	"lamb":          "meat",

	// 烘焙
	"bread":     "bakery",
	"bagels":    "bakery",
	"tortillas": "bakery",
	"buns":      "bakery",

	// 乾貨調味
	"flour":       "pantry",
	"sugar":       "pantry",
	"salt":        "pantry",
	"pepper":      "pantry",
	"rice":        "pantry",
	"pasta":       "pantry",
	"olive oil":   "pantry",
	"soy sauce":   "pantry",
	"vinegar":     "pantry",
	"honey":       "pantry",
	"baking soda": "pantry",
	"oats":        "pantry",
	"cereal":      "pantry",
	"beans":       "pantry",

	// 冷凍
	"ice cream":    "frozen",
	"frozen peas":  "frozen",
	"frozen pizza": "frozen",

	// 飲品
	"coffee": "beverage",
	"tea":    "beverage",
	"juice":  "beverage",
	"soda":   "beverage",
	"water":  "beverage",
	"beer":   "beverage",
	"wine":   "beverage",
}

// 子字串比對依較長、較特定的關鍵字在前
var substringMatches = []struct {
	keyword string
	key     string
}{
	{"chicken breast", "meat"},
	{"ground ", "meat"},
	{"frozen", "frozen"},
	{"cream", "dairy"},
	{"cheese", "dairy"},
	{"milk", "dairy"},
	{"yogurt", "dairy"},
	{"chicken", "meat"},
	{"beef", "meat"},
	{"pork", "meat"},
	{"fish", "meat"},
	{"shrimp", "meat"},
	{"bread", "bakery"},
	{"roll", "bakery"},
	{"tortilla", "bakery"},
	{"sauce", "pantry"},
	{"oil", "pantry"},
	{"spice", "pantry"},
	{"flour", "pantry"},
	{"noodle", "pantry"},
	{"juice", "beverage"},
	{"coffee", "beverage"},
	{"tea", "beverage"},
	{"berr", "produce"},
	{"apple", "produce"},
	{"pepper", "produce"},
	{"lettuce", "produce"},
	{"onion", "produce"},
}
