package store

import "context"

// Lesson is a scheduled class. GroupNum 0 means the lesson is shared:
// it matches every queried group.
type Lesson struct {
	ID         int64
	Name       string
	Weekday    int
	Time       string
	RoomNumber string
	GroupNum   int
	Semester   int
	Grade      int
}

func lessonFromRecord(r Record) Lesson {
	var l Lesson
	l.ID, _ = r.Int64("id")
	l.Name, _ = r.String("name")
	l.Time, _ = r.String("time")
	l.RoomNumber, _ = r.String("room_number")
	if v, ok := r.Int64("weekday"); ok {
		l.Weekday = int(v)
	}
	if v, ok := r.Int64("group_num"); ok {
		l.GroupNum = int(v)
	}
	if v, ok := r.Int64("semester"); ok {
		l.Semester = int(v)
	}
	if v, ok := r.Int64("grade"); ok {
		l.Grade = int(v)
	}
	return l
}

// GetLessons returns lessons matching pred whose group is either the
// requested one or the shared group 0.
func (s *Store) GetLessons(ctx context.Context, group int, pred Predicate) ([]Lesson, error) {
	records, err := s.SelectAll(ctx, TableLessons, pred)
	if err != nil {
		return nil, err
	}
	var lessons []Lesson
	for _, r := range records {
		l := lessonFromRecord(r)
		if l.GroupNum == 0 || l.GroupNum == group {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

// GetLessonsToday returns the group's lessons for the current weekday,
// semester and grade. Outside any semester there are no lessons.
func (s *Store) GetLessonsToday(ctx context.Context, group int) ([]Lesson, error) {
	now := s.cal.Now()
	semester, ok := s.cal.Semester(now)
	if !ok {
		return nil, nil
	}
	return s.GetLessons(ctx, group, Predicate{
		"weekday":  s.cal.Weekday(now),
		"semester": semester,
		"grade":    s.cal.Grade(now),
	})
}

// GetLesson returns the lesson with the given id; ok is false when it
// does not exist.
func (s *Store) GetLesson(ctx context.Context, id int64) (Lesson, bool, error) {
	r, err := s.Select(ctx, TableLessons, Predicate{"id": id})
	if err != nil {
		return Lesson{}, false, err
	}
	if r.Empty() {
		return Lesson{}, false, nil
	}
	return lessonFromRecord(r), true, nil
}

// AddLesson inserts a lesson and returns its generated id.
func (s *Store) AddLesson(ctx context.Context, l Lesson) (int64, error) {
	return s.Insert(ctx, TableLessons, map[string]any{
		"name":        l.Name,
		"weekday":     l.Weekday,
		"time":        l.Time,
		"room_number": l.RoomNumber,
		"group_num":   l.GroupNum,
		"semester":    l.Semester,
		"grade":       l.Grade,
	})
}

// UpdateLesson sets the given fields on one lesson.
func (s *Store) UpdateLesson(ctx context.Context, id int64, fields map[string]any) error {
	return s.Update(ctx, TableLessons, fields, Predicate{"id": id})
}

// DeleteLesson removes a lesson. Notes referencing it keep their
// lesson_id; consumers substitute a placeholder name.
func (s *Store) DeleteLesson(ctx context.Context, id int64) error {
	return s.Delete(ctx, TableLessons, Predicate{"id": id})
}
