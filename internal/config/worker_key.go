package config

type WorkerKeyStruct struct {
	AnalyzeResumeQueue    string
	EvaluateQueue         string
	PersistViolationQueue string
	PersistScoresQueue    string
}

var WorkerKey = &WorkerKeyStruct{
	AnalyzeResumeQueue:    "analyze_resume_queue",
	EvaluateQueue:         "evaluate_queue",
	PersistViolationQueue: "persist_violations_queue",
	PersistScoresQueue:    "persist_scores_queue",
}
