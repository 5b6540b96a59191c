package ai

import (
	"fmt"
	"strings"

	"github.com/andreicosmin02/furniture-store-api/internal/models"
)

// buildAnalysisPrompt instructs the vision model to select and place
// catalog products in the photographed room, answering in strict JSON.
func buildAnalysisPrompt(style string, products []models.Product) string {
	var catalog strings.Builder
	for i, p := range products {
		if i > 0 {
			catalog.WriteString("\n---\n")
		}
		fmt.Fprintf(&catalog, "ID: %s\nName: %s\nCategory: %s\nShort Description: %s\nLong Description: %s\nPrice: %g",
			p.ID, p.Name, p.Category, p.ShortDescription, p.LongDescription, p.Price)
	}

	styleLine := ""
	if style != "" {
		styleLine = "\nPreferred style: " + style
	}

	return fmt.Sprintf(`You are an expert interior designer analyzing a room to select and place furniture products. Follow these CRITICAL rules:

1. PRODUCT SELECTION RULES:
   - Must select EXACTLY 5-7 products from the provided catalog ONLY
   - Product IDs MUST match exactly from the catalog (case-sensitive)
   - Never invent or hallucinate product IDs
   - If no suitable products exist, return fewer items with explanation

2. CATEGORY REQUIREMENTS:
   - Minimum 1 seating product (sofa, chair, stool)
   - Minimum 1 table surface (coffee table, side table)
   - Remaining items should complement these categories

3. VALIDATION INSTRUCTIONS:
   - Before finalizing, verify each product ID exists in the catalog
   - If unsure about a product, exclude it

4. OUTPUT FORMAT (strict JSON):

{
  "description": "Scene summary",
  "selectedProducts": [
    {
      "productId": "PRODUCT_ID",
      "boundingBox": {"x": 0, "y": 0, "width": 0, "height": 0},
      "analysis": {
        "furnitureAnalysis": {"type": "...", "color": "...", "style": "...", "size": "...", "materials": "...", "features": ["..."], "condition": "..."},
        "customizationRecommendations": {"colorChanges": ["..."], "materialChanges": ["..."], "structuralModifications": ["..."], "featureAdditions": ["..."], "styleTransformations": ["..."], "modularitySuggestions": ["..."]},
        "summary": "..."
      }
    }
  ]
}
%s
Product Catalog:
%s

Return only valid JSON.`, styleLine, catalog.String())
}

// buildGenerationPrompt asks for a photorealistic rendering of the room
// with the selected products integrated.
func buildGenerationPrompt(style string, products []ProductImage) string {
	var descriptions strings.Builder
	for _, p := range products {
		fmt.Fprintf(&descriptions, "- %s\n", p.Description)
	}

	if style == "" {
		style = "match the original room style exactly"
	}

	return fmt.Sprintf(`Generate a professional interior design visualization that seamlessly integrates the specified furniture into the provided room image. Follow these guidelines carefully:

1. Style & Atmosphere:
- Maintain the existing architectural style: %s
- Preserve the room's current lighting conditions and ambiance
- Keep the original color palette and materials unless specified otherwise

2. Product Integration:
Products to include:
%s
Integration requirements:
- Position each item realistically within the space, considering proper scale and proportions
- Ensure all products are fully visible and properly oriented
- Maintain natural sightlines and circulation paths

3. Visual Quality:
- Photorealistic rendering quality
- Accurate shadows and reflections
- Natural material textures

4. Composition Rules:
- Do not add or remove architectural elements
- Do not change the camera perspective
- Maintain the original room dimensions

Output: Single high-quality image with no text, labels, or watermarks.`, style, descriptions.String())
}
