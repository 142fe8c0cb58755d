package scenario

import "context"

// Task is one queued unit of work
type Task func(ctx context.Context) error

// Pipeline runs tasks one at a time in the order they were queued. The first
// failing task stops the pipeline.
type Pipeline struct {
	tasks []Task
}

// NewPipeline returns an empty pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Then queues t
func (p *Pipeline) Then(t Task) *Pipeline {
	p.tasks = append(p.tasks, t)
	return p
}

// Len is the number of queued tasks
func (p *Pipeline) Len() int {
	return len(p.tasks)
}

// Run executes the queue. A cancelled ctx stops it before the next task.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, t := range p.tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t(ctx); err != nil {
			return err
		}
	}
	return nil
}
