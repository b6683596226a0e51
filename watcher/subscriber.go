package watcher

// Subscriber handles event subscriptions.
type Subscriber struct {
	done                  chan struct{}
	catchUpStartedHandler func(CatchUpStarted)
	catchUpDoneHandler    func(CatchUpDone)
	catchUpErrorHandler   func(CatchUpError)
	pollStartedHandler    func(PollingStarted)
	pollingSyncHandler    func(PollingSyncCompleted)
	pollShutdownHandler   func(PollingShutdown)
	pollingErrorHandler   func(PollingError)
}

// OnCatchUpStarted sets the handler for CatchUpStarted events
func OnCatchUpStarted(fn func(CatchUpStarted)) func(*Subscriber) {
	return func(s *Subscriber) { s.catchUpStartedHandler = fn }
}

// OnCatchUpDone sets the handler for CatchUpDone events
func OnCatchUpDone(fn func(CatchUpDone)) func(*Subscriber) {
	return func(s *Subscriber) { s.catchUpDoneHandler = fn }
}

// OnCatchUpError sets the handler for CatchUpError events
func OnCatchUpError(fn func(CatchUpError)) func(*Subscriber) {
	return func(s *Subscriber) { s.catchUpErrorHandler = fn }
}

// OnPollingStarted sets the handler for PollingStarted events
func OnPollingStarted(fn func(PollingStarted)) func(*Subscriber) {
	return func(s *Subscriber) { s.pollStartedHandler = fn }
}

// OnPollingSyncCompleted sets the handler for PollingSyncCompleted events
func OnPollingSyncCompleted(fn func(PollingSyncCompleted)) func(*Subscriber) {
	return func(s *Subscriber) { s.pollingSyncHandler = fn }
}

// OnPollingShutdown sets the handler for PollingShutdown events
func OnPollingShutdown(fn func(PollingShutdown)) func(*Subscriber) {
	return func(s *Subscriber) { s.pollShutdownHandler = fn }
}

// OnPollingError sets the handler for PollingError events
func OnPollingError(fn func(PollingError)) func(*Subscriber) {
	return func(s *Subscriber) { s.pollingErrorHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and starts the dispatch loop.
// Returns a closer function that waits for all events to be processed.
//
// Example:
//
//	closer := watcher.NewSubscriber(events,
//	  watcher.OnCatchUpDone(func(e watcher.CatchUpDone) { ... }),
//	)
//	defer closer()
//
// The subscriber processes events until the events channel closes.
func NewSubscriber(events <-chan Event, opts ...func(*Subscriber)) func() {
	s := &Subscriber{
		done:                  make(chan struct{}),
		catchUpStartedHandler: func(CatchUpStarted) {},
		catchUpDoneHandler:    func(CatchUpDone) {},
		catchUpErrorHandler:   func(CatchUpError) {},
		pollStartedHandler:    func(PollingStarted) {},
		pollingSyncHandler:    func(PollingSyncCompleted) {},
		pollShutdownHandler:   func(PollingShutdown) {},
		pollingErrorHandler:   func(PollingError) {},
	}

	for _, opt := range opts {
		opt(s)
	}

	go func() {
		defer close(s.done)
		for ev := range events {
			switch e := ev.(type) {
			case CatchUpStarted:
				s.catchUpStartedHandler(e)
			case CatchUpDone:
				s.catchUpDoneHandler(e)
			case CatchUpError:
				s.catchUpErrorHandler(e)
			case PollingStarted:
				s.pollStartedHandler(e)
			case PollingSyncCompleted:
				s.pollingSyncHandler(e)
			case PollingShutdown:
				s.pollShutdownHandler(e)
			case PollingError:
				s.pollingErrorHandler(e)
			}
		}
	}()

	return func() {
		<-s.done
	}
}
