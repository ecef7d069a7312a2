package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 判分相关常量
const (
	// PointsPerQuestion 每道客观题的固定分值
	PointsPerQuestion = 10
	// DefaultPassThreshold 默认及格线（得分率），可被 system_configs 覆盖
	DefaultPassThreshold = 0.6
	// DiagnosticSeedMastery 诊断发现薄弱点时写入的初始掌握度
	DiagnosticSeedMastery = 0.2
	// QuestionPreviewRunes 通知中引用题干的最大长度
	QuestionPreviewRunes = 10
)
