package domain

// Category is the EPA health category of an AQI value.
type Category string

const (
	CategoryGood               Category = "good"
	CategoryModerate           Category = "moderate"
	CategoryUnhealthySensitive Category = "unhealthy_for_sensitive_groups"
	CategoryUnhealthy          Category = "unhealthy"
	CategoryVeryUnhealthy      Category = "very_unhealthy"
	CategoryHazardous          Category = "hazardous"
)

// HealthAdvice is the bulletin guidance printed next to a category.
type HealthAdvice struct {
	General   string `json:"general"`
	Sensitive string `json:"sensitive"`
}

type categoryInfo struct {
	maxAQI int
	label  string
	advice HealthAdvice
}

// categories are ordered by upper bound. Labels and advice are the French
// texts used on the published bulletin.
var categories = [...]struct {
	category Category
	categoryInfo
}{
	{CategoryGood, categoryInfo{50, "Bonne", HealthAdvice{
		General:   "La qualité de l'air est satisfaisante.",
		Sensitive: "Aucune mesure particulière.",
	}}},
	{CategoryModerate, categoryInfo{100, "Modérée", HealthAdvice{
		General:   "Qualité acceptable.",
		Sensitive: "Réduire les efforts prolongés en cas de symptômes.",
	}}},
	{CategoryUnhealthySensitive, categoryInfo{150, "Peu Saine GS", HealthAdvice{
		General:   "Peu de risques pour le grand public.",
		Sensitive: "Réduire les activités intenses en plein air.",
	}}},
	{CategoryUnhealthy, categoryInfo{200, "Peu Saine", HealthAdvice{
		General:   "Éviter toute activité physique en extérieur.",
		Sensitive: "Rester à l'intérieur.",
	}}},
	{CategoryVeryUnhealthy, categoryInfo{300, "Très Peu Saine", HealthAdvice{
		General:   "Alerte Rouge : Suspension de tout effort physique en extérieur.",
		Sensitive: "Confinement Sanitaire : Isolement intérieur strict exigé.",
	}}},
	{CategoryHazardous, categoryInfo{MaxIndex, "Dangereuse", HealthAdvice{
		General:   "URGENCE : Éviter absolument toute exposition extérieure.",
		Sensitive: "URGENCE : Rester confiné à l'intérieur.",
	}}},
}

// CategoryFor classifies an AQI value. Values above 300 are hazardous.
func CategoryFor(aqi int) Category {
	for _, c := range categories {
		if aqi <= c.maxAQI {
			return c.category
		}
	}
	return CategoryHazardous
}

func (c Category) info() categoryInfo {
	for _, e := range categories {
		if e.category == c {
			return e.categoryInfo
		}
	}
	return categoryInfo{}
}

// Label returns the bulletin label, e.g. "Modérée".
func (c Category) Label() string { return c.info().label }

// Advice returns the bulletin health advice.
func (c Category) Advice() HealthAdvice { return c.info().advice }
