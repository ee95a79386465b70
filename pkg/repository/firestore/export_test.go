package firestore

import "cloud.google.com/go/firestore"

var CounterValue = counterValue

type WriteJob = writeJob

func WaitJobs(jobs []WriteJob) error {
	return waitJobs(jobs)
}

var _ WriteJob = (*firestore.BulkWriterJob)(nil)
