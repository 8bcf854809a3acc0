package config

const (
	// QueueJobDesc carries raw job descriptions from the watcher to the summarizer.
	QueueJobDesc = "job_desc_queue"

	// QueueJDSummary carries summarized job profiles to the summary indexer.
	QueueJDSummary = "jd_summary_queue"

	// QueueResume carries resume file paths from the watcher to the parser.
	QueueResume = "resume_queue"

	// QueueResumeProfile carries parsed candidate profiles to the matcher.
	QueueResumeProfile = "resume_profile_queue"

	// QueueMatch carries the aggregate evaluation result for one candidate.
	QueueMatch = "match_queue"

	// QueueEmail carries qualifying matches to the notifier.
	QueueEmail = "email_queue"
)

// AllQueues lists every queue the pipeline declares at startup.
var AllQueues = []string{
	QueueJobDesc,
	QueueJDSummary,
	QueueResume,
	QueueResumeProfile,
	QueueMatch,
	QueueEmail,
}
