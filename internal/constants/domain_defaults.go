package constants

// Справочники по умолчанию, если в конфиге секция domain пустая.

const (
	KindSewing     = "sewing"
	KindInspection = "inspection"
	KindPacking    = "packing"
	KindCutting    = "cutting"

	VariantEfficiency  = "efficiency"
	VariantUtilization = "utilization"

	// DailyMinutes минут на одного рабочего в нормальную смену
	DailyMinutes = "720"
	// OTRatio сколько минут сверхурочки дают один нормальный день выработки
	OTRatio = "720"
)

var (
	// порядок категорий производственный, не алфавитный
	ProductCategories = []string{"panel", "duffel", "blower", "accessory"}

	SewingLines  = []string{"L01", "L02", "L03", "L04", "L05", "L06"}
	SewingFields = []string{"line_1", "line_2", "line_3", "line_4", "line_5", "line_6"}

	// rework учитывается отдельно и в сумму линий не входит
	SewingAuxiliary = []string{"rework"}

	InspectionCategories = []string{"pass", "repair", "reject"}
	InspectionFields     = []string{"qc_1", "qc_2", "qc_3", "qc_4"}

	PackingFields    = []string{"pcs"}
	PackingAuxiliary = []string{"cartons"}

	CuttingMachines = []string{"CUT-01", "CUT-02", "CUT-03"}
	CuttingFields   = []string{"layer_1", "layer_2", "layer_3", "layer_4"}

	// приведение изделий к панели
	ProductWeights = map[string]string{
		"panel":     "1",
		"duffel":    "1/3",
		"blower":    "2/5",
		"accessory": "1/5",
	}

	EfficiencyTargets = map[string]string{
		"panel":  "0.5",
		"duffel": "0.3",
		"blower": "0.2",
	}

	UtilizationTargets = map[string]string{
		"panel": "1",
	}
)
