package model

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
)

// swagger:model
type Course struct {
	BaseModel
	Title       string       `gorm:"size:255;index;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	TeacherID   uint         `gorm:"index" json:"teacherId"`
	Status      CourseStatus `gorm:"size:20;default:'draft'" json:"status"`
}

func (Course) TableName() string {
	return "courses"
}

// Homework 作业分组。题目可以挂在某次作业下，也可以只按课程归属。
// swagger:model
type Homework struct {
	BaseModel
	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
}

func (Homework) TableName() string {
	return "homeworks"
}
