package i18n

const DefaultCode = "error.default"

var english = map[string]string{
	DefaultCode:            "Something went wrong!",
	"id.invalid":           "The provided ID is invalid!",
	"request.invalid_body": "The request body is invalid!",
	"page.invalid":         "The page number is invalid!",
	"limit.invalid":        "The page size is invalid!",
	"query.invalid":        "The query parameters are invalid!",
	"db.error":             "A database error occurred!",
	"route.not_found":      "The requested resource does not exist!",

	"order.customer_invalid":    "The customer does not exist!",
	"order.empty":               "The order must contain at least one product!",
	"order.quantity_invalid":    "The ordered quantity must be positive!",
	"order.food_not_found":      "The food %s does not exist!",
	"order.recipe_missing":      "The food %s has no recipe!",
	"order.insufficient_stock":  "There is not enough %s in stock!",
	"order.rollback_failed":     "The order could not be rolled back!",
	"order.not_found":           "The order does not exist!",
	"order.already_cooked":      "The order is already cooked!",
	"order.already_handed_over": "The order is already handed over!",

	"inventory.name_required":      "The material name is required!",
	"inventory.material_not_found": "The material %s does not exist!",
	"inventory.quantity_invalid":   "The quantity must not be zero!",
	"inventory.message_required":   "The message is required!",
	"inventory.message_too_long":   "The message is too long!",
	"inventory.negative_stock":     "The stock cannot go below zero!",
	"inventory.date_in_future":     "The date cannot be in the future!",
	"inventory.entry_not_found":    "The stock entry does not exist!",
	"inventory.threshold_invalid":  "The threshold must not be negative!",

	"material.name_invalid": "The material name is invalid!",
	"material.unit_invalid": "The unit is invalid!",
	"material.name_taken":   "A material named %s already exists!",
	"material.in_use":       "The material is in use!",

	"food.name_invalid":            "The food name is invalid!",
	"food.price_invalid":           "The price must not be negative!",
	"food.recipe_empty":            "The recipe must contain at least one material!",
	"food.recipe_quantity_invalid": "The recipe quantity must be positive!",
	"food.recipe_duplicate":        "A material is listed twice in the recipe!",
	"food.recipe_material_invalid": "The recipe refers to an unknown material!",
	"food.name_taken":              "A food named %s already exists!",
	"food.not_found":               "The food does not exist!",

	"auth.email_invalid":       "The email address is invalid!",
	"auth.password_too_short":  "The password is too short!",
	"auth.password_weak":       "The password is too weak!",
	"auth.email_taken":         "The email address is already registered!",
	"auth.invalid_credentials": "Invalid email or password!",
	"auth.user_inactive":       "The user is inactive!",
	"auth.refresh_invalid":     "The session is invalid!",
	"auth.refresh_reused":      "The session was reused and has been revoked!",
	"auth.unauthorized":        "Authentication required!",
	"auth.forbidden":           "You are not allowed to do this!",
}

var hungarian = map[string]string{
	DefaultCode:            "Valami hiba történt!",
	"id.invalid":           "A megadott azonosító érvénytelen!",
	"request.invalid_body": "A kérés törzse érvénytelen!",
	"page.invalid":         "Az oldalszám érvénytelen!",
	"limit.invalid":        "Az oldalméret érvénytelen!",
	"query.invalid":        "A lekérdezés paraméterei érvénytelenek!",
	"db.error":             "Adatbázis hiba történt!",
	"route.not_found":      "A kért erőforrás nem létezik!",

	"order.customer_invalid":    "A vásárló nem létezik!",
	"order.empty":               "A rendelésnek legalább egy terméket tartalmaznia kell!",
	"order.quantity_invalid":    "A rendelt mennyiségnek pozitívnak kell lennie!",
	"order.food_not_found":      "A(z) %s étel nem létezik!",
	"order.recipe_missing":      "A(z) %s ételnek nincs receptje!",
	"order.insufficient_stock":  "Nincs elég %s raktáron!",
	"order.rollback_failed":     "A rendelést nem sikerült visszavonni!",
	"order.not_found":           "A rendelés nem létezik!",
	"order.already_cooked":      "A rendelés már elkészült!",
	"order.already_handed_over": "A rendelést már átadták!",

	"inventory.name_required":      "Az alapanyag neve kötelező!",
	"inventory.material_not_found": "A(z) %s alapanyag nem létezik!",
	"inventory.quantity_invalid":   "A mennyiség nem lehet nulla!",
	"inventory.message_required":   "Az üzenet kötelező!",
	"inventory.message_too_long":   "Az üzenet túl hosszú!",
	"inventory.negative_stock":     "A készlet nem lehet negatív!",
	"inventory.date_in_future":     "A dátum nem lehet a jövőben!",
	"inventory.entry_not_found":    "A készletbejegyzés nem létezik!",
	"inventory.threshold_invalid":  "A küszöbérték nem lehet negatív!",

	"material.in_use": "Az alapanyag használatban van!",

	"auth.invalid_credentials": "Hibás email cím vagy jelszó!",
	"auth.unauthorized":        "Bejelentkezés szükséges!",
	"auth.forbidden":           "Ehhez nincs jogosultságod!",
}
