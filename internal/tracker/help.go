// Package tracker parses interactive commands and routes them to the session
// and statistics engines.
package tracker

// HelpText lists the interactive commands.
const HelpText = `Commands:
  switch <task>              Switch to a task. Pending time on the old task is recorded.
  start | s                  Start the timer for the current task.
  pause | p                  Stop the timer and record the elapsed time.
  <number>                   Record <number> completed units with the elapsed time.
  set-price <task> <price>   Create a task or update its price.
  list                       List all known tasks and their prices.
  status                     Show the active session and today's summary.
  stats                      Show today's and this month's summaries.
  stats day [YYYY-MM-DD]     Show the summary for a day (default today).
  stats month [YYYY-MM]      Show the summary and projection for a month (default this month).
  history [n]                Show the last n entries, n > 0 (default: today's entries).
  help                       Show this help message.
  exit | quit                Record pending time and exit.

Press ENTER on an empty line to record one unit.
`
