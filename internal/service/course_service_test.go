package service

import (
	"encoding/json"
	"testing"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
	"github.com/wmz5616/XIAORUI/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCourseService(db *gorm.DB) *CourseService {
	return NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewQuestionRepository(db),
	)
}

func TestCreateQuestionMarshalsOptions(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := seedCourse(t, db, "代数")

	q, err := svc.CreateQuestion(QuestionCreateRequest{
		CourseID:      course.ID,
		Content:       "1+1=?",
		Type:          model.QuestionChoice,
		Options:       []string{"1", "2", "3"},
		CorrectAnswer: "2",
	})
	require.NoError(t, err)

	var options []string
	require.NoError(t, json.Unmarshal(q.Options, &options))
	assert.Equal(t, []string{"1", "2", "3"}, options)

	_, err = svc.CreateQuestion(QuestionCreateRequest{CourseID: 999, Content: "x", Type: model.QuestionChoice})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestStudentViewHidesCorrectAnswer(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := seedCourse(t, db, "代数")
	hw := &model.Homework{CourseID: course.ID, Title: "作业一"}
	require.NoError(t, db.Create(hw).Error)
	seedChoiceQuestion(t, db, course.ID, &hw.ID, "1+1=?", "A")

	views, err := svc.ListHomeworkQuestions(hw.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)

	// 学生视图序列化后不能出现正确答案字段
	raw, err := json.Marshal(views[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctAnswer")
}

func TestListHomeworkQuestionsUnknownHomework(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	_, err := svc.ListHomeworkQuestions(999)
	assert.ErrorIs(t, err, util.ErrHomeworkNotFound)
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	seedCourse(t, db, "已发布")
	draft := &model.Course{Title: "草稿", Status: model.CourseDraft}
	require.NoError(t, db.Create(draft).Error)

	courses, err := svc.ListPublished()
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "已发布", courses[0].Title)
}
