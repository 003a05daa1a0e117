package sim

// Request is a single unit of work flowing through the pipeline.
//
// Start is stamped once by the Producer at creation; Dispatch is stamped
// once by the Dispatcher when the request is admitted into the Consumer.
// Both are virtual-time microsecond ticks. Requests are held by value in
// whichever stage's FIFO currently owns them and are dropped after the
// Consumer records their latencies.
type Request struct {
	Start    int64
	Dispatch int64
}
