package models

// Buddy — результат подбора: кандидату раскрывается только email
// и процент совместимости, остальные поля профиля не разглашаются.
type Buddy struct {
	Email              string  `json:"email"`
	CompatibilityScore float64 `json:"compatibilityScore"`
}
