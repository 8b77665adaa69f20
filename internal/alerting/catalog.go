package alerting

import "sort"

// catalogue maps every code the engine can emit to operator guidance.
// Display data only; detection never reads it.
var catalogue = map[string]string{
	"CB2565": "Anomalie de température du lit chauffant. Vérifier l'alimentation du lit, le relais et le branchement de la thermistance.",
	"CB2510": "Circuit ouvert de la thermistance du lit chauffant. Remplacer la thermistance ou vérifier le fil et le réinsérer.",
	"CB2516": "Court-circuit de la thermistance du lit chauffant. Vérifier l'isolation du fil et remplacer la thermistance.",
	"CM0115": "Tâche inachevée détectée, coupure de courant probable. Vérifier l'alimentation puis reprendre ou annuler l'impression.",
	"CM3000": "Buse bouchée : la tête est commandée mais ne se déplace pas. Vérifier la mécanique des axes et nettoyer la buse.",
	"CM3001": "Extrudeur bloqué : le filament n'avance pas. Vérifier le filament, l'engrenage d'entraînement et la buse.",
	"CX2573": "Anomalie du repérage de l'axe X. La limite de l'axe X n'est pas déclenchée. Vérifier si la limite est endommagée et si l'entraînement du moteur est endommagé.",
	"CY2577": "Anomalie du repérage de l'axe Y. La limite de l'axe Y n'est pas déclenchée. Vérifier si la limite est endommagée et si l'entraînement du moteur est endommagé.",
	"CZ2581": "Anomalie du repérage de l'axe Z. Problème de déclenchement du capteur de l'axe Z. Vérifier si le fil du lit chaud est tiré.",
	"CX2585": "Coordonnées d'impression de l'axe X hors plage. Refaire le tranchage avec le profil de l'imprimante ou configurer le logiciel tiers selon la taille de l'imprimante.",
	"CY2586": "Coordonnées d'impression de l'axe Y hors plage. Refaire le tranchage avec le profil de l'imprimante ou configurer le logiciel tiers selon la taille de l'imprimante.",
	"CZ2587": "Coordonnées d'impression de l'axe Z hors plage. Refaire le tranchage avec le profil de l'imprimante ou configurer le logiciel tiers selon la taille de l'imprimante.",
	"FN0001": "Ventilateur commandé mais immobile. Vérifier qu'il n'est pas bloqué ou débranché.",
	"FN0002": "Ventilateur à pleine vitesse mais RPM anormalement bas. Nettoyer ou remplacer le ventilateur.",
	"EX0001": "L'extrudeur chauffe mais la température ne monte pas. Vérifier la cartouche chauffante et la thermistance.",
	"EX0002": "Lecture de température de l'extrudeur incohérente. Sonde en court-circuit ou ouverte.",
	"ZT0001": "Plateau non ajusté horizontalement. Lancer Z_TILT_ADJUST avant d'imprimer.",
	"BM0000": "Maillage du plateau absent ou invalide. Relancer BED_MESH_CALIBRATE.",
	"BM0001": "Plateau trop bosselé malgré z_tilt. Vérifier la planéité du plateau et refaire le maillage.",
}

// Describe returns the long description of code and whether it is known.
func Describe(code string) (string, bool) {
	d, ok := catalogue[code]
	return d, ok
}

// CatalogueEntry is one row of the code catalogue.
type CatalogueEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Catalogue lists all codes sorted by code.
func Catalogue() []CatalogueEntry {
	out := make([]CatalogueEntry, 0, len(catalogue))
	for code, desc := range catalogue {
		out = append(out, CatalogueEntry{Code: code, Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
