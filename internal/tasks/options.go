package tasks

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

// cronSchedule is an asynq enqueue option that sets the task's processing
// time to the next firing of a cron expression.
type cronSchedule struct {
	expr string
}

func (s cronSchedule) String() string {
	return fmt.Sprintf("cron=%s", s.expr)
}

func (s cronSchedule) Type() asynq.OptionType {
	return asynq.ProcessAtOpt
}

func (s cronSchedule) Value() interface{} {
	return s.expr
}

func (s cronSchedule) Apply(opts *asynq.TaskInfo) {
	schedule, err := cron.ParseStandard(s.expr)
	if err != nil {
		// unparseable expression: run in an hour rather than never
		opts.NextProcessAt = time.Now().Add(1 * time.Hour)
		return
	}
	opts.NextProcessAt = schedule.Next(time.Now())
}

// CronSchedule schedules a task for the next firing of the cron expression.
func CronSchedule(expr string) asynq.Option {
	return cronSchedule{expr: expr}
}
