package recipe

import "errors"

var (
	ErrRecipeFile    = errors.New("recipe file error")
	ErrInvalidRecipe = errors.New("invalid recipe")
)
