package graph

// Command mutates the Graph from within the audio block callback; it is
// only ever run there, so it may touch Graph state without additional
// locking.
type Command func(g *Graph)

// pluginWork is a unit of work that must run off the audio thread because
// it may block or allocate (module loading, bus negotiation). Per §4.5,
// plugin creation and destruction are confined to a single dedicated
// worker goroutine rather than the audio callback.
type pluginWork func()

// Enqueue queues cmd to run at the start of the next ProcessBlock call.
// Safe to call from any goroutine; the send blocks only if the command
// queue (sized generously at construction) is full, which signals a
// non-realtime caller is flooding the graph rather than a realtime
// concern.
func (g *Graph) Enqueue(cmd Command) {
	g.commands <- cmd
}

// QueuePluginWork hands fn to the dedicated plugin worker goroutine. fn
// typically ends by calling g.Enqueue to apply its result (a new
// *plugin.Instance binding, or a binding's removal) back on the audio
// thread's own schedule.
func (g *Graph) QueuePluginWork(fn pluginWork) {
	g.pluginWork <- fn
}

// runPluginWorker drains pluginWork requests one at a time until the
// channel is closed by Shutdown. It owns no Graph state directly; every
// side effect it produces is applied back through Enqueue.
func (g *Graph) runPluginWorker() {
	defer close(g.workerDone)
	for fn := range g.pluginWork {
		fn()
	}
}

// drainCommands applies every command currently queued, without blocking
// once the queue runs dry. Called once at the top of every ProcessBlock.
func (g *Graph) drainCommands() {
	for {
		select {
		case cmd := <-g.commands:
			cmd(g)
		default:
			return
		}
	}
}
