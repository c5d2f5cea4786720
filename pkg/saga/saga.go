package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step Saga中的一个步骤
// Compensate为nil表示该步骤无需补偿（如只读操作，或本身就是最后一步）
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 编排式Saga
// 按顺序执行步骤，任一步骤失败时按相反顺序补偿已执行的步骤
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
}

// ExecutionError Saga执行失败
// Cause是失败步骤的原始错误，CompensationErr是补偿阶段出现的错误（可能为nil）
type ExecutionError struct {
	Step            string
	Cause           error
	CompensationErr error
}

func (e *ExecutionError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("saga步骤[%s]失败: %v (补偿失败: %v)", e.Step, e.Cause, e.CompensationErr)
	}
	return fmt.Sprintf("saga步骤[%s]失败: %v", e.Step, e.Cause)
}

// Unwrap 保留原始错误，调用方可以用errors.Is/As判断业务错误
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// NewSaga 创建Saga，timeout<=0表示不限时
func NewSaga(name string, timeout time.Duration) *Saga {
	return &Saga{
		name:    name,
		timeout: timeout,
	}
}

// AddStep 添加步骤
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
	return s
}

// Execute 执行Saga
// 补偿使用独立的Context（不继承超时和取消），避免补偿本身被中断
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return s.fail(ctx, step.Name, err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				return s.fail(ctx, step.Name, err)
			}
		}
		s.executed = append(s.executed, step)
	}

	return nil
}

// Executed 已成功执行的步骤名（按执行顺序）
func (s *Saga) Executed() []string {
	names := make([]string, len(s.executed))
	for i, step := range s.executed {
		names[i] = step.Name
	}
	return names
}

func (s *Saga) fail(ctx context.Context, stepName string, cause error) error {
	zap.L().Warn("saga步骤失败，开始补偿",
		zap.String("saga", s.name),
		zap.String("step", stepName),
		zap.Error(cause),
	)
	return &ExecutionError{
		Step:            stepName,
		Cause:           cause,
		CompensationErr: s.compensate(context.WithoutCancel(ctx)),
	}
}

func (s *Saga) compensate(ctx context.Context) error {
	var errs []error
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			zap.L().Error("saga补偿失败",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
		}
	}
	s.executed = nil
	return errors.Join(errs...)
}
