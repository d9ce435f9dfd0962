/*
Package runner implements the console chat loop for a pageflow conversation.

It bridges a conversation.Service and a terminal (or any reader/writer pair).
Replies are formatted as markdown with numbered options, rendered with glamour
when the output is a terminal, and the user can answer with the option number,
its id or its title.

# Key Components

  - Runner: reads input, hands it to the service and writes the reply.
  - IOHandler: decouples how replies are shown and input is read (text or JSON lines).
  - ConsoleFormatter: turns a reply into markdown and remembers the numbered choices.
  - SanitizeInput: input size and control character policy shared with the HTTP API.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("console"),
		runner.WithInputHandler(runner.NewConsole(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, svc); err != nil {
		log.Fatal(err)
	}
*/
package runner
