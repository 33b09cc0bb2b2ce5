package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nolexnol/CourseRegistration-System/apps/registrar/tui"
	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/audit"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

func (cli *commandLine) print(format string, a ...interface{}) {
	fmt.Fprintf(cli.out, format+"\n", a...)
}

// credentials are the --student and --name flags identifying the acting student.
type credentials struct {
	id   string
	name string
}

func (c *credentials) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.id, "student", "s", "", "student ID")
	cmd.Flags().StringVarP(&c.name, "name", "n", "", "student full name")
}

func (cli *commandLine) authenticate(ctx context.Context, c credentials) (student.Student, error) {
	return cli.app.students.Login(ctx, student.Credentials{ID: c.id, Name: c.name})
}

func (cli *commandLine) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive interface",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.runTUI(cmd.Context())
		},
	}
}

func (cli *commandLine) studentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage students",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	add := &cobra.Command{
		Use:     "add ID NAME...",
		Short:   "Register a new student",
		Example: "  registrar student add S1001 Ada Lovelace",
		Args:    args(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, a []string) error {
			std, err := cli.app.students.Register(cmd.Context(), student.NewStudent{ID: a[0], Name: strings.Join(a[1:], " ")})
			if err != nil {
				return err
			}
			cli.print("Student '%s' (%s) added.", std.Name, std.ID)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered students",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			students, err := cli.app.students.QueryAll(ctx)
			if err != nil {
				return err
			}
			t := tui.NewSimpleTable("Students", []string{"ID", "Name", "Credits"})
			for _, std := range students {
				credits, err := cli.app.enrollments.Credits(ctx, std.ID)
				if err != nil {
					return err
				}
				t.AddRow(std.ID, std.Name, strconv.Itoa(credits))
			}
			fmt.Fprint(cli.out, t.View(cli.styles, "No student registered yet."))
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func (cli *commandLine) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login ID NAME...",
		Short: "Check a student's ID and name and show their registration",
		Args:  args(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, a []string) error {
			ctx := cmd.Context()
			std, err := cli.authenticate(ctx, credentials{id: a[0], name: strings.Join(a[1:], " ")})
			if err != nil {
				return err
			}
			summary, err := cli.app.enrollments.Summary(ctx, std.ID)
			if err != nil {
				return err
			}
			cli.print("Student: %s (%s)", std.Name, std.ID)
			cli.print("Credits: %d (min %d, max %d)", summary.Credits, summary.MinCredits, summary.MaxCredits)
			t := tui.NewSimpleTable("Enrolled Courses", []string{"ID", "Name", "Instructor", "Schedule", "Credits"})
			for _, crs := range summary.Courses {
				t.AddRow(crs.ID, crs.Name, crs.Instructor, crs.Schedule.String(), strconv.Itoa(crs.Credits))
			}
			fmt.Fprint(cli.out, t.View(cli.styles, "Not enrolled in any course."))
			if summary.BelowMinimum() {
				cli.print("Warning: %d credits is below the minimum of %d.", summary.Credits, summary.MinCredits)
			}
			return nil
		},
	}
}

func (cli *commandLine) coursesCmd() *cobra.Command {
	var (
		available bool
		day       string
		search    string
		sortBy    string
	)
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the course catalog with enrollment counts",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := course.QueryFilter{Search: search, Available: available}
			if day != "" {
				d, err := course.ParseWeekday(day)
				if err != nil {
					return core.NewValidationError(err, core.FieldError{Field: "day", Error: err.Error()})
				}
				filter.Day = d
			}

			listings, err := cli.app.enrollments.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			listings = course.Filter(listings, filter)
			if err = course.Sort(listings, core.ParseOrdering(sortBy)); err != nil {
				return err
			}

			t := tui.NewSimpleTable("Courses", []string{"ID", "Name", "Instructor", "Schedule", "Enrollment", "Credits"})
			for _, l := range listings {
				t.AddRow(l.ID, l.Name, l.Instructor, l.Schedule.String(), l.Seats(), strconv.Itoa(l.Credits))
			}
			fmt.Fprint(cli.out, t.View(cli.styles, "No course found."))
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&available, "available", "a", false, "only courses with free seats")
	f.StringVar(&day, "day", "", "only courses on this weekday")
	f.StringVar(&search, "search", "", "match ID, name or instructor")
	f.StringVar(&sortBy, "sort", "id", "sort by id, name, instructor, credits, seats or schedule; prefix with - to reverse")

	cmd.AddCommand(cli.courseAddCmd())
	return cmd
}

func (cli *commandLine) courseAddCmd() *cobra.Command {
	var (
		nc        course.NewCourse
		timeRange string
	)
	cmd := &cobra.Command{
		Use:     "add ID",
		Short:   "Add a course to the catalog",
		Example: "  registrar courses add CS201 --name 'Data Structures' --instructor 'Prof. Wilson' --day thu --time 14:00-15:20",
		Args:    args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			nc.ID = a[0]
			if timeRange != "" {
				start, end, err := course.ParseTimeRange(timeRange)
				if err != nil {
					return core.NewValidationError(err, core.FieldError{Field: "time", Error: err.Error()})
				}
				nc.Start, nc.End = start.String(), end.String()
			}
			crs, err := cli.app.courses.Create(cmd.Context(), nc)
			if err != nil {
				return err
			}
			cli.print("Course '%s' (%s) added: %s, %d seats, %d credits.", crs.Name, crs.ID, crs.Schedule, crs.MaxStudents, crs.Credits)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&nc.Name, "name", "", "course name")
	f.StringVar(&nc.Instructor, "instructor", "", "instructor name")
	f.StringVar(&nc.Day, "day", "", "weekday the course is taught on")
	f.StringVar(&timeRange, "time", "", "time slot formatted as HH:MM-HH:MM")
	f.IntVar(&nc.MaxStudents, "capacity", 0, "number of seats (default from config)")
	f.IntVar(&nc.Credits, "credits", 0, "credit hours (default from config)")
	return cmd
}

func (cli *commandLine) enrollCmd() *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:     "enroll COURSE...",
		Short:   "Enroll a student in courses",
		Example: "  registrar enroll -s S1001 -n 'Ada Lovelace' MATH101 CS101",
		Args:    args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			ctx := cmd.Context()
			std, err := cli.authenticate(ctx, creds)
			if err != nil {
				return err
			}
			for _, courseID := range a {
				crs, err := cli.app.enrollments.Enroll(ctx, std.ID, courseID)
				if err != nil {
					return err
				}
				cli.print("Student '%s' enrolled in '%s'.", std.ID, crs.ID)
			}
			credits, err := cli.app.enrollments.Credits(ctx, std.ID)
			if err != nil {
				return err
			}
			cli.print("Credits: %d", credits)
			return nil
		},
	}
	creds.register(cmd)
	return cmd
}

func (cli *commandLine) dropCmd() *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "drop COURSE",
		Short: "Drop a course",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			ctx := cmd.Context()
			std, err := cli.authenticate(ctx, creds)
			if err != nil {
				return err
			}
			res, err := cli.app.enrollments.Drop(ctx, std.ID, a[0])
			if err != nil {
				return err
			}
			if res.BelowMinimum {
				cli.print("Warning: dropping this course reduces your total credits to %d, which is below the minimum allowable (%d).",
					res.RemainingCredits, res.MinCredits)
			}
			cli.print("Student '%s' dropped course '%s'.", std.ID, res.CourseID)
			return nil
		},
	}
	creds.register(cmd)
	return cmd
}

func (cli *commandLine) historyCmd() *cobra.Command {
	var (
		studentID string
		actions   []string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the activity journal",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := audit.QueryFilter{StudentID: studentID, Limit: limit}
			for _, a := range actions {
				filter.Actions = append(filter.Actions, audit.Action(core.CleanString(a, true /* lower */)))
			}
			events, err := cli.app.history.Query(cmd.Context(), filter)
			if err != nil {
				return err
			}
			t := tui.NewSimpleTable("History", []string{"When", "Action", "Student", "Course", "Detail"})
			for _, ev := range events {
				t.AddRow(ev.At.Local().Format("2006-01-02 15:04:05"), string(ev.Action), ev.StudentID, ev.CourseID, ev.Detail)
			}
			fmt.Fprint(cli.out, t.View(cli.styles, "No activity recorded."))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&studentID, "student", "s", "", "only this student's activity")
	f.StringSliceVar(&actions, "action", nil, "only these actions: registered, enrolled, dropped, catalog_seeded")
	f.IntVar(&limit, "limit", 0, "only the most recent entries")
	return cmd
}
