package repository

import (
	"errors"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/util"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListPublished() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("status = ?", model.CoursePublished).Order("id asc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByTeacher(teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("teacher_id = ?", teacherID).Order("id asc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Count(&count).Error
	return count, err
}

func (r *CourseRepository) CreateHomework(hw *model.Homework) error {
	return r.DB.Create(hw).Error
}

func (r *CourseRepository) FindHomeworkByID(id uint) (*model.Homework, error) {
	var hw model.Homework
	err := r.DB.First(&hw, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrHomeworkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hw, nil
}

func (r *CourseRepository) ListHomeworks(courseID uint) ([]model.Homework, error) {
	var hws []model.Homework
	err := r.DB.Where("course_id = ?", courseID).Order("id asc").Find(&hws).Error
	return hws, err
}
