// Package promptline turns a terminal into an interactive command console.
//
// A Console reads raw keystrokes, keeps an editable input line at the bottom
// of the output, and dispatches each submitted line to a registered command.
// Log output written through the console's Printer appears above the input
// line without corrupting it.
//
//	c, err := promptline.New(promptline.WithPrompt(">"))
//	if err != nil {
//		return err
//	}
//	c.Register("greet", "Say hello", promptline.Exactly(1), func(ctx context.Context, args ...string) error {
//		c.Printer().Printf("hello, %s", args[0])
//		return nil
//	})
//	c.Start(ctx)
//	return c.Wait()
//
// When stdin is not a terminal, or PROMPTLINE_FALLBACK is set, the console
// runs in fallback mode: the terminal keeps its line discipline and output is
// append-only.
package promptline
