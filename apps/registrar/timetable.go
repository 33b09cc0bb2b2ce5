package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Nolexnol/CourseRegistration-System/apps/registrar/tui"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

var timetableFormats = []string{"table", "json", "yaml", "csv"}

type timetableEntry struct {
	Day        course.Weekday `json:"day" yaml:"day"`
	Start      course.Clock   `json:"start" yaml:"start"`
	End        course.Clock   `json:"end" yaml:"end"`
	CourseID   string         `json:"course_id" yaml:"course_id"`
	Course     string         `json:"course" yaml:"course"`
	Instructor string         `json:"instructor" yaml:"instructor"`
	Credits    int            `json:"credits" yaml:"credits"`
}

type timetable struct {
	Student student.Student  `json:"student" yaml:"student"`
	Credits int              `json:"credits" yaml:"credits"`
	Entries []timetableEntry `json:"entries" yaml:"entries"`
}

func newTimetable(std student.Student, courses []course.Course) timetable {
	tt := timetable{Student: std, Entries: make([]timetableEntry, 0, len(courses))}
	for _, crs := range courses {
		tt.Credits += crs.Credits
		tt.Entries = append(tt.Entries, timetableEntry{
			Day:        crs.Schedule.Day,
			Start:      crs.Schedule.Start,
			End:        crs.Schedule.End,
			CourseID:   crs.ID,
			Course:     crs.Name,
			Instructor: crs.Instructor,
			Credits:    crs.Credits,
		})
	}
	return tt
}

func (tt timetable) writeTable(w io.Writer, styles tui.Styles) error {
	t := tui.NewSimpleTable(fmt.Sprintf("Timetable of %s (%s)", tt.Student.Name, tt.Student.ID),
		[]string{"Day", "Time", "Course", "Instructor", "Credits"})
	for _, e := range tt.Entries {
		t.AddRow(string(e.Day), e.Start.String()+" - "+e.End.String(), e.Course, e.Instructor, strconv.Itoa(e.Credits))
	}
	_, err := fmt.Fprint(w, t.View(styles, "Not enrolled in any course."))
	return err
}

func (tt timetable) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tt)
}

func (tt timetable) writeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tt); err != nil {
		return err
	}
	return enc.Close()
}

func (tt timetable) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "start", "end", "course_id", "course", "instructor", "credits"}); err != nil {
		return err
	}
	for _, e := range tt.Entries {
		row := []string{string(e.Day), e.Start.String(), e.End.String(), e.CourseID, e.Course, e.Instructor, strconv.Itoa(e.Credits)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (cli *commandLine) timetableCmd() *cobra.Command {
	var (
		creds  credentials
		format string
	)
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Show a student's weekly timetable",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			std, err := cli.authenticate(ctx, creds)
			if err != nil {
				return err
			}
			courses, err := cli.app.enrollments.Timetable(ctx, std.ID)
			if err != nil {
				return err
			}

			tt := newTimetable(std, courses)
			switch format {
			case "table":
				err = tt.writeTable(cli.out, cli.styles)
			case "json":
				err = tt.writeJSON(cli.out)
			case "yaml":
				err = tt.writeYAML(cli.out)
			case "csv":
				err = tt.writeCSV(cli.out)
			default:
				return &usageError{
					err: errors.Errorf("unknown format %q, want one of %v", format, timetableFormats),
					cmd: cmd.CommandPath(),
				}
			}
			return errors.Wrap(err, "writing timetable")
		},
	}
	creds.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml or csv")
	return cmd
}
