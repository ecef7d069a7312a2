package service

import (
	"testing"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
	"github.com/wmz5616/XIAORUI/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGradingService(db *gorm.DB) *GradingService {
	return NewGradingService(
		repository.NewQuestionRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewMasteryRepository(db),
		repository.NewKnowledgeGraphRepository(db),
		repository.NewUserRepository(db),
		repository.NewSystemConfigRepository(db),
		db,
	)
}

func TestSubmitHomeworkAllCorrectPasses(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "zhangsan")
	course := seedCourse(t, db, "代数")
	nodeA := seedNode(t, db, course.ID, "分式", 1)
	nodeB := seedNode(t, db, course.ID, "因式分解", 1)
	q1 := seedChoiceQuestion(t, db, course.ID, nil, "1+1=?", "A")
	q2 := seedChoiceQuestion(t, db, course.ID, nil, "2+2=?", "B")

	result, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{
		{QuestionID: q1.ID, Answer: "A"},
		{QuestionID: q2.ID, Answer: " B "}, // 首尾空白不影响比对
	})
	require.NoError(t, err)

	assert.Equal(t, 20, result.AutoScore)
	assert.Equal(t, 20, result.MaxPossibleScore)
	assert.False(t, result.RequiresReview)
	require.NotNil(t, result.Passed)
	assert.True(t, *result.Passed)

	// 通过后点亮课程全部知识点
	var records []model.MasteryRecord
	require.NoError(t, db.Where("student_id = ?", student.ID).Find(&records).Error)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, model.TopicNode, r.TopicType)
		assert.Equal(t, 1.0, r.MasteryLevel)
		assert.Equal(t, "mastered", r.Status)
	}
	nodeIDs := []uint{*records[0].KnowledgeNodeID, *records[1].KnowledgeNodeID}
	assert.ElementsMatch(t, []uint{nodeA.ID, nodeB.ID}, nodeIDs)

	// 学习时长累积
	var refreshed model.User
	require.NoError(t, db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 30, refreshed.LearnTime)
}

func TestSubmitHomeworkBelowThresholdFails(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "lisi")
	course := seedCourse(t, db, "代数")
	seedNode(t, db, course.ID, "分式", 1)
	q1 := seedChoiceQuestion(t, db, course.ID, nil, "1+1=?", "A")
	q2 := seedChoiceQuestion(t, db, course.ID, nil, "2+2=?", "B")

	result, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{
		{QuestionID: q1.ID, Answer: "A"},
		{QuestionID: q2.ID, Answer: "C"},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.AutoScore)
	require.NotNil(t, result.Passed)
	assert.False(t, *result.Passed)

	// 未通过不产生掌握度与学习时长
	var count int64
	db.Model(&model.MasteryRecord{}).Count(&count)
	assert.Zero(t, count)

	var refreshed model.User
	require.NoError(t, db.First(&refreshed, student.ID).Error)
	assert.Zero(t, refreshed.LearnTime)
}

func TestSubmitHomeworkTextPendingReview(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "wangwu")
	course := seedCourse(t, db, "作文")
	q1 := seedChoiceQuestion(t, db, course.ID, nil, "选择题", "A")
	q2 := seedTextQuestion(t, db, course.ID, nil, "谈谈你的看法")

	result, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{
		{QuestionID: q1.ID, Answer: "A"},
		{QuestionID: q2.ID, Answer: "我认为……"},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.AutoScore)
	assert.True(t, result.RequiresReview)
	// 含主观题时不做通过判定
	assert.Nil(t, result.Passed)

	var textAns model.StudentAnswer
	require.NoError(t, db.Where("student_id = ? AND question_id = ?", student.ID, q2.ID).First(&textAns).Error)
	assert.Nil(t, textAns.Score)
}

func TestSubmitHomeworkEmptyQuestionSet(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "zhaoliu")
	course := seedCourse(t, db, "空课程")

	_, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{
		{QuestionID: 1, Answer: "A"},
	})
	assert.ErrorIs(t, err, util.ErrNoQuestions)

	var count int64
	db.Model(&model.StudentAnswer{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitHomeworkUnknownQuestionSkipped(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "sunqi")
	course := seedCourse(t, db, "代数")
	q := seedChoiceQuestion(t, db, course.ID, nil, "1+1=?", "A")

	result, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{
		{QuestionID: q.ID, Answer: "A"},
		{QuestionID: 9999, Answer: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, result.AutoScore)

	var count int64
	db.Model(&model.StudentAnswer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitHomeworkResubmissionOverwrites(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "zhouba")
	course := seedCourse(t, db, "代数")
	q := seedChoiceQuestion(t, db, course.ID, nil, "1+1=?", "A")

	_, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{{QuestionID: q.ID, Answer: "B"}})
	require.NoError(t, err)
	_, err = svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{{QuestionID: q.ID, Answer: "A"}})
	require.NoError(t, err)

	var answers []model.StudentAnswer
	require.NoError(t, db.Where("student_id = ?", student.ID).Find(&answers).Error)
	require.Len(t, answers, 1)
	assert.Equal(t, "A", answers[0].AnswerContent)
	require.NotNil(t, answers[0].Score)
	assert.Equal(t, 10, *answers[0].Score)
}

func TestSubmitHomeworkScopedToHomework(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "wujiu")
	course := seedCourse(t, db, "代数")
	hw := &model.Homework{CourseID: course.ID, Title: "第一次作业"}
	require.NoError(t, db.Create(hw).Error)

	hwQ := seedChoiceQuestion(t, db, course.ID, &hw.ID, "作业题", "A")
	seedChoiceQuestion(t, db, course.ID, nil, "课程散题", "A")

	result, err := svc.SubmitHomework(student.ID, course.ID, &hw.ID, []AnswerSubmission{
		{QuestionID: hwQ.ID, Answer: "A"},
	})
	require.NoError(t, err)

	// 指定作业后满分只按作业内的题计算
	assert.Equal(t, 10, result.MaxPossibleScore)
	require.NotNil(t, result.Passed)
	assert.True(t, *result.Passed)
}

func TestPassThresholdConfigurable(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	require.NoError(t, svc.ConfigRepo.SetValue("ai_threshold", "0.4", ""))

	student := seedStudent(t, db, "zhengshi")
	course := seedCourse(t, db, "代数")
	q1 := seedChoiceQuestion(t, db, course.ID, nil, "1+1=?", "A")
	q2 := seedChoiceQuestion(t, db, course.ID, nil, "2+2=?", "B")

	result, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{
		{QuestionID: q1.ID, Answer: "A"},
		{QuestionID: q2.ID, Answer: "C"},
	})
	require.NoError(t, err)

	// 得分率 0.5 >= 配置的 0.4
	require.NotNil(t, result.Passed)
	assert.True(t, *result.Passed)
}

func TestGradeSubmissionNotifiesStudent(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "qianyi")
	course := seedCourse(t, db, "作文")
	q := seedTextQuestion(t, db, course.ID, nil, "请结合生活实际谈谈你对诚信的理解")

	_, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{
		{QuestionID: q.ID, Answer: "诚信是……"},
	})
	require.NoError(t, err)

	var pending model.StudentAnswer
	require.NoError(t, db.Where("student_id = ? AND question_id = ?", student.ID, q.ID).First(&pending).Error)

	graded, err := svc.GradeSubmission(pending.ID, ManualGradeRequest{Score: 8, Comment: "论述到位"})
	require.NoError(t, err)
	require.NotNil(t, graded.Score)
	assert.Equal(t, 8, *graded.Score)
	assert.Equal(t, "论述到位", graded.TeacherComment)

	// 有且只有一条通知，题干只引用前 10 个字符
	var notifications []model.Notification
	require.NoError(t, db.Where("user_id = ?", student.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Content, "已批改：8 分")
	assert.Contains(t, notifications[0].Content, "请结合生活实际谈谈你...")
	assert.Contains(t, notifications[0].Content, "论述到位")
}

func TestGradeSubmissionUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	_, err := svc.GradeSubmission(9999, ManualGradeRequest{Score: 5})
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
}

func TestListPendingReviewOnlyUngradedText(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "liuer")
	course := seedCourse(t, db, "作文")
	choiceQ := seedChoiceQuestion(t, db, course.ID, nil, "选择题", "A")
	textQ := seedTextQuestion(t, db, course.ID, nil, "主观题")

	_, err := svc.SubmitHomework(student.ID, course.ID, nil, []AnswerSubmission{
		{QuestionID: choiceQ.ID, Answer: "A"},
		{QuestionID: textQ.ID, Answer: "我的回答"},
	})
	require.NoError(t, err)

	pending, err := svc.ListPendingReview()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, textQ.ID, pending[0].QuestionID)

	_, err = svc.GradeSubmission(pending[0].ID, ManualGradeRequest{Score: 6})
	require.NoError(t, err)

	pending, err = svc.ListPendingReview()
	require.NoError(t, err)
	assert.Empty(t, pending)
}
