package lister

import "github.com/goliatone/go-lister/pkg/activity"

// ApplyFunc receives the committed parameters and their hash.
type ApplyFunc func(params Parameters, hash string)

type notifier struct {
	hash     string
	ingested string
	callback ApplyFunc
}

// OnApply registers the subscriber, replacing any previous one. A nil fn
// removes it. The subscriber runs outside the coordinator lock and may call
// back into the coordinator.
func (l *Lister) OnApply(fn ApplyFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifier.callback = fn
}

// outcome is what one unit of work leaves to dispatch after unlocking.
type outcome struct {
	logs     []LogEvent
	events   []activity.Event
	callback ApplyFunc
	params   Parameters
	hash     string
}

func (l *Lister) computeHash() (string, error) {
	return Encode(hashViewOf(l.response))
}

// settle recomputes the hash once the unit of work is done. The subscriber
// is due when the hash moved and is not the echo of the last ingestion.
func (l *Lister) settle() outcome {
	var out outcome
	hash, err := l.computeHash()
	if err != nil {
		l.log(LogEvent{Kind: LogRejected, Reason: "query state cannot be encoded", Err: err})
		hash = l.notifier.hash
	}
	params := parametersOf(l.response)

	if l.ingested {
		l.ingested = false
		out.events = append(out.events, activity.BuildIngestedEvent(l.activityInput(params, hash)))
	}

	if hash != l.notifier.hash {
		l.notifier.hash = hash
		if hash == l.notifier.ingested {
			l.log(LogEvent{Kind: LogSuppressed, Hash: hash})
			out.events = append(out.events, activity.BuildSuppressedEvent(l.activityInput(params, hash)))
		} else {
			l.log(LogEvent{Kind: LogNotified, Hash: hash})
			out.events = append(out.events, activity.BuildAppliedEvent(l.activityInput(params, hash)))
			out.callback = l.notifier.callback
			out.params = params
			out.hash = hash
		}
	}

	out.logs = l.pending
	l.pending = nil
	return out
}

func (l *Lister) dispatch(out outcome) {
	for _, event := range out.logs {
		l.cfg.logger.LogEvent(event)
	}
	l.emit(out.events)
	if out.callback != nil {
		out.callback(out.params, out.hash)
	}
}
