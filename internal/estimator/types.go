package estimator

// Nutrients описывает макро- и микронутриенты в ответе AI-оценщика.
// Обязательны только белки, углеводы и жиры, остальные поля модель
// может не заполнять.
type Nutrients struct {
	ProteinG      int `json:"protein_g"`
	CarbsG        int `json:"carbs_g"`
	FatG          int `json:"fat_g"`
	CholesterolMg int `json:"cholesterol_mg,omitempty"`
	SodiumMg      int `json:"sodium_mg,omitempty"`
	VitaminCMg    int `json:"vitamin_c_mg,omitempty"`
}

// Estimation — результат распознавания фотографии еды.
// Форма ответа зафиксирована схемой, передаваемой модели вместе с запросом.
type Estimation struct {
	TotalCalories  int       `json:"total_calories"`
	TotalNutrients Nutrients `json:"total_nutrients"`
	AnalysisNotes  string    `json:"analysis_notes"`
}
