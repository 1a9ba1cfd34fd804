package shopping

import (
	"net/http"

	shoppingCore "shopping-list-api/internal/core/shopping"
	"shopping-list-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateRecipeRequest 建立食譜請求
type CreateRecipeRequest struct {
	Name string `json:"name" binding:"required"`
}

// HandleCreateRecipe 處理 POST /recipes
func HandleCreateRecipe(store *shoppingCore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRecipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		recipe, err := store.CreateRecipe(c.Request.Context(), req.Name)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, recipe)
	}
}

// HandleGetRecipe 處理 GET /recipes/:recipeID，回傳食譜與其食材
func HandleGetRecipe(store *shoppingCore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, ok := pathID(c, "recipeID")
		if !ok {
			return
		}

		recipe, err := store.GetRecipe(c.Request.Context(), recipeID)
		if err != nil {
			respondError(c, err)
			return
		}
		if recipe == nil {
			respondError(c, common.ErrRecipeNotFound)
			return
		}

		ingredients, err := store.RecipeIngredients(c.Request.Context(), recipeID)
		if err != nil {
			respondError(c, err)
			return
		}
		if ingredients == nil {
			ingredients = []shoppingCore.RecipeIngredient{}
		}

		c.JSON(http.StatusOK, gin.H{
			"recipe":      recipe,
			"ingredients": ingredients,
		})
	}
}

// AddRecipeIngredientRequest 加入食譜食材請求
// quantity 為字串以與草稿往返一致，空字串表示未知數量
type AddRecipeIngredientRequest struct {
	IngredientName string `json:"ingredient_name" binding:"required"`
	UnitName       string `json:"unit_name,omitempty"`
	Quantity       string `json:"quantity,omitempty"`
}

// HandleAddRecipeIngredient 處理 POST /recipes/:recipeID/ingredients
// 與購物清單不同：重複的 (單位, 食材) 組合是 422，不做靜默合併
func HandleAddRecipeIngredient(store *shoppingCore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, ok := pathID(c, "recipeID")
		if !ok {
			return
		}

		var req AddRecipeIngredientRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		recipe, err := store.GetRecipe(c.Request.Context(), recipeID)
		if err != nil {
			respondError(c, err)
			return
		}
		if recipe == nil {
			respondError(c, common.ErrRecipeNotFound)
			return
		}

		quantity, err := shoppingCore.ParseQuantity(req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}

		ingredient, err := store.AddRecipeIngredient(c.Request.Context(), recipeID, req.UnitName, req.IngredientName, quantity)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, ingredient)
	}
}

// ImportRecipeRequest 食譜匯入請求；scale_factor 省略或非法時視為 1
type ImportRecipeRequest struct {
	ScaleFactor float64 `json:"scale_factor,omitempty"`
}

// HandleImportRecipe 處理 POST /shopping/lists/:listID/recipes/:recipeID
// 將食譜食材乘以倍率後整批調和進清單，整個匯入是單一交易
func HandleImportRecipe(svc *shoppingCore.Service, store *shoppingCore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := requestID(c)

		listID, ok := pathID(c, "listID")
		if !ok {
			return
		}
		recipeID, ok := pathID(c, "recipeID")
		if !ok {
			return
		}

		var req ImportRecipeRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
				return
			}
		}

		list, err := store.GetList(c.Request.Context(), listID)
		if err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			respondError(c, common.ErrListNotFound)
			return
		}

		recipe, err := store.GetRecipe(c.Request.Context(), recipeID)
		if err != nil {
			respondError(c, err)
			return
		}
		if recipe == nil {
			respondError(c, common.ErrRecipeNotFound)
			return
		}

		items, err := svc.AddFromRecipe(c.Request.Context(), listID, recipeID, req.ScaleFactor)
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []shoppingCore.Item{}
		}

		common.LogInfo("食譜匯入完成",
			zap.String("request_id", reqID),
			zap.Int64("list_id", listID),
			zap.Int64("recipe_id", recipeID),
			zap.Int("items", len(items)),
		)
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}
