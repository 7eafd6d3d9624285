// Package notify publishes recalculation events.
//
// After every successful edit the workbook hands a Notifier an Event naming
// the edited cell, the cells that were re-evaluated and their new values.
// LogNotifier writes the event to the context logger, SocketIO emits it to a
// socket.io server and Multi fans out to several notifiers.
package notify
