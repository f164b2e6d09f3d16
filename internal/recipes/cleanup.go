package recipes

import (
	"jrewrite/internal/recipe"
)

var cleanupDescriptor = recipe.Descriptor{
	Name:        "Cleanup",
	DisplayName: "Common cleanups",
	Description: "Removes empty statements and unused locals, then simplifies if statements with an empty then branch.",
}

// Cleanup chains the statement-level cleanups. Removing unused locals can
// empty a then branch, so SimplifyEmptyIfThen runs last.
func Cleanup() recipe.Recipe {
	return recipe.Chain(cleanupDescriptor,
		RemoveEmptyStatements(false),
		RemoveUnusedLocalVariables(),
		SimplifyEmptyIfThen(),
	)
}
