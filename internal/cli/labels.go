package cli

import (
	"context"
	"fmt"
	"time"
)

// listLimit caps how many clips the list command prints.
const listLimit = 20

// List prints the most recent clips with their flags and labels.
func (a *App) List(ctx context.Context) error {
	all, err := a.clips.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No clips yet.")
		return nil
	}

	byID := map[int64]string{}
	labelList, err := a.labels.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, l := range labelList {
		byID[l.ID] = l.Name
	}

	for i, c := range all {
		if i == listLimit {
			fmt.Printf("... and %d more\n", len(all)-listLimit)
			break
		}
		flags := " "
		if c.Favorite {
			flags = "*"
		}
		text := c.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		var names []string
		for _, id := range c.LabelIDs {
			if name, ok := byID[id]; ok {
				names = append(names, name)
			}
		}
		line := fmt.Sprintf("%s %s  %q", flags, c.Timestamp.Format(time.DateTime), text)
		if len(names) > 0 {
			line += fmt.Sprintf("  [%v]", names)
		}
		fmt.Println(line)
	}
	return nil
}

// Labels manages labels: with no arguments it lists them, otherwise it
// expects add/rename/rm plus names.
func (a *App) Labels(ctx context.Context, args []string) error {
	if len(args) == 0 {
		labelList, err := a.labels.GetAll(ctx)
		if err != nil {
			return err
		}
		if len(labelList) == 0 {
			fmt.Println("No labels yet.")
			return nil
		}
		for _, l := range labelList {
			fmt.Println(l.Name)
		}
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: pushclip labels add <name>")
		}
		if _, err := a.labels.Create(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Label created:", args[1])
		return nil
	case "rename":
		if len(args) != 3 {
			return fmt.Errorf("usage: pushclip labels rename <name> <new name>")
		}
		l, err := a.labels.GetByName(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.labels.Rename(ctx, l.ID, args[2]); err != nil {
			return err
		}
		fmt.Printf("Label %q renamed to %q\n", args[1], args[2])
		return nil
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: pushclip labels rm <name>")
		}
		l, err := a.labels.GetByName(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.labels.Delete(ctx, l.ID); err != nil {
			return err
		}
		fmt.Println("Label removed:", args[1])
		return nil
	default:
		return fmt.Errorf("unknown labels action: %s", args[0])
	}
}
