// Package orchestrator runs per-chunk tasks in parallel while respecting
// task dependencies and per-resource concurrency limits.
//
// A split operation submits one write task per chunk plan and, when the
// source carries tags, one tag task depending on that chunk's write task.
// Chunks have no cross-chunk dependencies, so writes run freely up to the
// configured worker count.
package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"mp3splitter/models"
)

// ResourceType represents a class of work competing for concurrency slots.
type ResourceType string

const (
	ResourceIO  ResourceType = "io"  // chunk file writes (worker-limited)
	ResourceTag ResourceType = "tag" // per-file tag writes
)

// Runner is a unit of work executed by the pool.
type Runner interface {
	// Run performs the work, blocking until done.
	Run() error

	// OutputPath returns the file the task produces or modifies.
	OutputPath() string
}

// Task represents a unit of work with dependencies and a resource class.
type Task struct {
	ID           string
	ChunkID      uint
	Runner       Runner
	Dependencies []string // IDs of tasks that must complete before this one
	Resource     ResourceType
	Status       TaskStatus
	Error        error
	Result       *models.WriteResult
	StartTime    time.Time
	EndTime      time.Time
}

// TaskStatus represents the current state of a task.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskReady              // dependencies met, waiting for a slot
	TaskRunning
	TaskCompleted
	TaskFailed
)

// ResourceConstraint defines the concurrency limit for a resource type.
type ResourceConstraint struct {
	Type     ResourceType
	MaxSlots int // maximum concurrent tasks for this resource
}

// Stats summarizes the pool's task states.
type Stats struct {
	Total     int
	Pending   int
	Ready     int
	Running   int
	Completed int
	Failed    int
}

// Pool manages task execution with dependencies and resource constraints.
type Pool struct {
	tasks       map[string]*Task
	constraints map[ResourceType]*ResourceConstraint

	activeSlots map[ResourceType]int
	slotsMutex  sync.RWMutex

	tasksMutex sync.RWMutex
	completeCh chan string // task IDs that completed

	onProgress func(completed, total int, task *Task)
}

// NewPool creates a new task pool with the given resource constraints.
func NewPool(constraints []ResourceConstraint) *Pool {
	constraintMap := make(map[ResourceType]*ResourceConstraint)
	for i := range constraints {
		constraintMap[constraints[i].Type] = &constraints[i]
	}

	return &Pool{
		tasks:       make(map[string]*Task),
		constraints: constraintMap,
		activeSlots: make(map[ResourceType]int),
		completeCh:  make(chan string, 100),
	}
}

// AddTask adds a task to the pool.
func (p *Pool) AddTask(task *Task) error {
	p.tasksMutex.Lock()
	defer p.tasksMutex.Unlock()

	if _, exists := p.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}

	task.Status = TaskPending
	p.tasks[task.ID] = task
	return nil
}

// SetProgressCallback sets a callback invoked after each task completes.
func (p *Pool) SetProgressCallback(callback func(completed, total int, task *Task)) {
	p.onProgress = callback
}

// Execute runs all tasks respecting dependencies and resource constraints.
//
// It returns one WriteResult per task, in completion order. Tasks whose
// dependencies failed are reported as failed without running.
func (p *Pool) Execute() ([]*models.WriteResult, error) {
	if err := p.validateGraph(); err != nil {
		return nil, err
	}

	totalTasks := len(p.tasks)
	if totalTasks == 0 {
		return nil, fmt.Errorf("no tasks to execute")
	}

	completedTasks := 0
	results := make([]*models.WriteResult, 0, totalTasks)

	var wg sync.WaitGroup
	doneCh := make(chan bool)

	go func() {
		for taskID := range p.completeCh {
			completedTasks++

			p.tasksMutex.RLock()
			task := p.tasks[taskID]
			p.tasksMutex.RUnlock()

			if task.Result != nil {
				results = append(results, task.Result)
			}

			if p.onProgress != nil {
				p.onProgress(completedTasks, totalTasks, task)
			}

			if completedTasks == totalTasks {
				doneCh <- true
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.scheduler()
	}()

	<-doneCh
	wg.Wait()

	return results, nil
}

// scheduler continuously dispatches ready tasks until all are settled.
func (p *Pool) scheduler() {
	for {
		if p.allTasksCompleteOrBlocked() {
			return
		}

		for _, task := range p.getReadyTasks() {
			if p.tryAcquireSlot(task.Resource) {
				go p.executeTask(task)
			}
		}

		// Sleep briefly to avoid busy waiting
		time.Sleep(10 * time.Millisecond)
	}
}

// getReadyTasks returns tasks whose dependencies are all completed.
func (p *Pool) getReadyTasks() []*Task {
	p.tasksMutex.RLock()
	defer p.tasksMutex.RUnlock()

	ready := make([]*Task, 0)

	for _, task := range p.tasks {
		if task.Status == TaskPending {
			if p.dependenciesMet(task) {
				task.Status = TaskReady
				ready = append(ready, task)
			}
		} else if task.Status == TaskReady {
			ready = append(ready, task)
		}
	}

	return ready
}

func (p *Pool) dependenciesMet(task *Task) bool {
	for _, depID := range task.Dependencies {
		depTask, exists := p.tasks[depID]
		if !exists {
			return false
		}
		if depTask.Status != TaskCompleted {
			return false
		}
	}
	return true
}

// tryAcquireSlot attempts to acquire a concurrency slot for the resource.
func (p *Pool) tryAcquireSlot(resource ResourceType) bool {
	p.slotsMutex.Lock()
	defer p.slotsMutex.Unlock()

	constraint, exists := p.constraints[resource]
	if !exists {
		// Unconstrained resource
		return true
	}

	if p.activeSlots[resource] < constraint.MaxSlots {
		p.activeSlots[resource]++
		return true
	}

	return false
}

func (p *Pool) releaseSlot(resource ResourceType) {
	p.slotsMutex.Lock()
	defer p.slotsMutex.Unlock()

	if p.activeSlots[resource] > 0 {
		p.activeSlots[resource]--
	}
}

// executeTask runs a single task and records its result.
func (p *Pool) executeTask(task *Task) {
	defer p.releaseSlot(task.Resource)

	p.tasksMutex.Lock()
	task.Status = TaskRunning
	task.StartTime = time.Now()
	p.tasksMutex.Unlock()

	err := task.Runner.Run()

	p.tasksMutex.Lock()
	task.EndTime = time.Now()

	if err != nil {
		task.Status = TaskFailed
		task.Error = err
		task.Result = &models.WriteResult{
			ChunkID: task.ChunkID,
			Success: false,
			Error:   err,
		}
	} else {
		task.Status = TaskCompleted
		task.Result = &models.WriteResult{
			ChunkID:    task.ChunkID,
			OutputPath: task.Runner.OutputPath(),
			Success:    true,
		}
	}
	p.tasksMutex.Unlock()

	p.completeCh <- task.ID
}

// allTasksCompleteOrBlocked checks if all tasks are settled or permanently
// blocked by failed dependencies. Blocked tasks are marked failed and
// reported to the completion channel.
func (p *Pool) allTasksCompleteOrBlocked() bool {
	p.tasksMutex.Lock()
	defer p.tasksMutex.Unlock()

	for _, task := range p.tasks {
		if task.Status == TaskCompleted || task.Status == TaskFailed {
			continue
		}

		if task.Status == TaskPending || task.Status == TaskReady {
			if p.hasFailedDependency(task) {
				task.Status = TaskFailed
				task.Error = fmt.Errorf("dependency failed")
				task.Result = &models.WriteResult{
					ChunkID: task.ChunkID,
					Success: false,
					Error:   task.Error,
				}
				go func(id string) {
					p.completeCh <- id
				}(task.ID)
				continue
			}

			// Task is still viable
			return false
		}

		if task.Status == TaskRunning {
			return false
		}
	}
	return true
}

// hasFailedDependency checks the task's dependency chain for failures.
func (p *Pool) hasFailedDependency(task *Task) bool {
	for _, depID := range task.Dependencies {
		if depTask, exists := p.tasks[depID]; exists {
			if depTask.Status == TaskFailed {
				return true
			}
			if p.hasFailedDependency(depTask) {
				return true
			}
		}
	}
	return false
}

// validateGraph checks that dependencies exist and contain no cycles.
func (p *Pool) validateGraph() error {
	p.tasksMutex.RLock()
	defer p.tasksMutex.RUnlock()

	for _, task := range p.tasks {
		for _, depID := range task.Dependencies {
			if _, exists := p.tasks[depID]; !exists {
				return fmt.Errorf("task %s depends on non-existent task %s", task.ID, depID)
			}
		}
	}

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var hasCycle func(taskID string) bool
	hasCycle = func(taskID string) bool {
		visited[taskID] = true
		recStack[taskID] = true

		for _, depID := range p.tasks[taskID].Dependencies {
			if !visited[depID] {
				if hasCycle(depID) {
					return true
				}
			} else if recStack[depID] {
				return true
			}
		}

		recStack[taskID] = false
		return false
	}

	for taskID := range p.tasks {
		if !visited[taskID] {
			if hasCycle(taskID) {
				return fmt.Errorf("cycle detected in task dependencies")
			}
		}
	}

	return nil
}

// TaskStatusOf returns the status of a task.
func (p *Pool) TaskStatusOf(taskID string) (TaskStatus, error) {
	p.tasksMutex.RLock()
	defer p.tasksMutex.RUnlock()

	task, exists := p.tasks[taskID]
	if !exists {
		return TaskPending, fmt.Errorf("task %s not found", taskID)
	}

	return task.Status, nil
}

// GetStats returns a snapshot of task-state counts.
func (p *Pool) GetStats() Stats {
	p.tasksMutex.RLock()
	defer p.tasksMutex.RUnlock()

	stats := Stats{Total: len(p.tasks)}

	for _, task := range p.tasks {
		switch task.Status {
		case TaskPending:
			stats.Pending++
		case TaskReady:
			stats.Ready++
		case TaskRunning:
			stats.Running++
		case TaskCompleted:
			stats.Completed++
		case TaskFailed:
			stats.Failed++
		}
	}

	return stats
}
