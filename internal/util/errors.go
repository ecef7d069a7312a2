package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrHomeworkNotFound   = errors.New("作业不存在")
	ErrNoQuestions        = errors.New("该课程暂无题目")
	ErrSubmissionNotFound = errors.New("提交记录不存在")
	ErrAttemptNotFound    = errors.New("诊断记录不存在")
	ErrAttemptFinished    = errors.New("诊断已完成，不能重复提交")
	ErrPermissionDenied   = errors.New("permission denied")
)
