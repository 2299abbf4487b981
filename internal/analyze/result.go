package analyze

import "encoding/json"

type FollowUp struct {
	Timeline   string `json:"timeline"`
	TargetDate string `json:"target_date"`
	Action     string `json:"action"`
}

type AttentionItem struct {
	Item        string   `json:"item"`
	Value       string   `json:"value"`
	Explanation string   `json:"explanation"`
	Advice      string   `json:"advice"`
	Severity    string   `json:"severity"`
	FollowUp    FollowUp `json:"follow_up"`
}

type ReportAnalysis struct {
	ExamDate           string          `json:"exam_date"`
	OverallSummary     string          `json:"overall_summary"`
	GoodNews           []string        `json:"good_news"`
	AttentionNeeded    []AttentionItem `json:"attention_needed"`
	DietLifestyleGuide []string        `json:"diet_lifestyle_guide"`
}

type MedicineAnalysis struct {
	Name              string `json:"name"`
	Efficacy          string `json:"efficacy"`
	Usage             string `json:"usage"`
	Contraindications string `json:"contraindications"`
	SideEffectsAlert  string `json:"side_effects_alert"`
	Summary           string `json:"summary"`
}

type NutritionAlert struct {
	Sugar string `json:"sugar"`
	Salt  string `json:"salt"`
	Fat   string `json:"fat"`
}

type FoodAnalysis struct {
	Name                string         `json:"name"`
	IngredientsAnalysis string         `json:"ingredients_analysis"`
	AdditivesAlert      []string       `json:"additives_alert"`
	NutritionAlert      NutritionAlert `json:"nutrition_alert"`
	AdviceForElderly    string         `json:"advice_for_elderly"`
	Summary             string         `json:"summary"`
}

// Result tags an extracted analysis payload with its mode. Raw always holds
// the payload exactly as the model produced it; the typed field for the mode
// is populated on a best-effort basis and left nil when the payload does not
// fit the shape. Callers that relay the response use Raw, so a structurally
// off reply still passes through unchanged.
type Result struct {
	Mode     Mode
	Raw      json.RawMessage
	Report   *ReportAnalysis
	Medicine *MedicineAnalysis
	Food     *FoodAnalysis
}

// Typed reports whether the payload fit the documented schema for its mode.
func (r Result) Typed() bool {
	return r.Report != nil || r.Medicine != nil || r.Food != nil
}

func DecodeResult(mode Mode, raw json.RawMessage) Result {
	res := Result{Mode: mode, Raw: raw}

	switch mode {
	case ModeReport:
		var v ReportAnalysis
		if json.Unmarshal(raw, &v) == nil {
			res.Report = &v
		}
	case ModeMedicine:
		var v MedicineAnalysis
		if json.Unmarshal(raw, &v) == nil {
			res.Medicine = &v
		}
	case ModeFood:
		var v FoodAnalysis
		if json.Unmarshal(raw, &v) == nil {
			res.Food = &v
		}
	}

	return res
}
