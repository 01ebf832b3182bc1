package tasks

type TaskSchedulerInterface interface {
	Start()
	Stop()
	TriggerRegenerate() error
}
