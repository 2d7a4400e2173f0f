package pfl

import "sync"

//Task is a unit of work executed by a Pool.
type Task interface {
	Execute()
}

//Pool runs tasks on a fixed number of goroutines.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

//NewPool starts threadsNum workers. Values below 1 start a single worker.
func NewPool(threadsNum int) *Pool {
	if threadsNum < 1 {
		threadsNum = 1
	}
	pool := &Pool{tasks: make(chan Task, threadsNum)}
	pool.wg.Add(threadsNum)
	for w := 0; w < threadsNum; w++ {
		go func() {
			defer pool.wg.Done()
			for task := range pool.tasks {
				task.Execute()
			}
		}()
	}
	return pool
}

//AddTask queues a task. It blocks while every worker is busy and the queue is full.
func (pool *Pool) AddTask(task Task) {
	pool.tasks <- task
}

//Close tells the workers that no more tasks will come.
func (pool *Pool) Close() {
	close(pool.tasks)
}

//WaitAll waits until every queued task has finished. Close must be called first.
func (pool *Pool) WaitAll() {
	pool.wg.Wait()
}
