package common

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPipelineExecutor(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()

	// empty
	emptyPipeline := NewPipelineExecutor()
	assert.Nil(emptyPipeline(ctx))

	// error case
	errorPipeline := NewErrorExecutor(fmt.Errorf("test error"))
	assert.NotNil(errorPipeline(ctx))

	// multiple success case
	runcount := 0
	successPipeline := NewPipelineExecutor(
		func(_ context.Context) error {
			runcount++
			return nil
		},
		func(_ context.Context) error {
			runcount++
			return nil
		})
	assert.Nil(successPipeline(ctx))
	assert.Equal(2, runcount)

	// a failing stage stops the pipeline
	ran := false
	failingPipeline := NewPipelineExecutor(
		NewErrorExecutor(fmt.Errorf("boom")),
		func(_ context.Context) error {
			ran = true
			return nil
		})
	assert.NotNil(failingPipeline(ctx))
	assert.False(ran)
}

func TestExecutorIf(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()

	count := 0
	executor := Executor(func(_ context.Context) error {
		count++
		return nil
	})

	assert.Nil(executor.If(func(_ context.Context) bool { return true })(ctx))
	assert.Equal(1, count)
	assert.Nil(executor.If(func(_ context.Context) bool { return false })(ctx))
	assert.Equal(1, count)
}

func TestExecutorThenRespectsCancellation(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	first := Executor(func(_ context.Context) error {
		cancel()
		return nil
	})
	ran := false
	pipeline := first.Then(func(_ context.Context) error {
		ran = true
		return nil
	})

	assert.NotNil(pipeline(ctx))
	assert.False(ran)
}
