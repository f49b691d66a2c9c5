package database

import (
	"log"
	"lxp_backend/internal/model"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

// Seed 写入演示用的学科、内容和测验，已有数据时跳过
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Subject{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Seed skipped: subjects already present")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		subjects := []model.Subject{
			{Name: "Mathematics - Algebra", Code: "MATH-ALG-9", Description: "Fundamental algebra concepts for 9th grade", GradeLevel: 9},
			{Name: "Science - Biology", Code: "SCI-BIO-9", Description: "Introduction to biology and life sciences", GradeLevel: 9},
			{Name: "English Literature", Code: "ENG-LIT-9", Description: "Literary analysis and writing skills", GradeLevel: 9},
		}
		if err := tx.Create(&subjects).Error; err != nil {
			return err
		}
		math := subjects[0]

		contents := []model.Content{
			{SubjectID: math.ID, Title: "Introduction to Variables", ContentType: model.ContentTypeLesson, Description: "Learn what variables are and how to use them in algebra", ContentBody: "A variable is a symbol (usually a letter) that represents an unknown value...", DifficultyLevel: model.DifficultyBeginner, EstimatedDurationMinutes: 30},
			{SubjectID: math.ID, Title: "Solving Linear Equations", ContentType: model.ContentTypeVideo, Description: "Step-by-step guide to solving linear equations", ContentBody: "How to isolate variables and solve for x...", DifficultyLevel: model.DifficultyBeginner, EstimatedDurationMinutes: 45},
			{SubjectID: math.ID, Title: "Practice: Linear Equations", ContentType: model.ContentTypeExercise, Description: "Practice problems for linear equations", ContentBody: "Solve the following equations: 1) 2x + 5 = 13, 2) 3x - 7 = 8...", DifficultyLevel: model.DifficultyBeginner, EstimatedDurationMinutes: 20},
			{SubjectID: math.ID, Title: "Graphing Linear Functions", ContentType: model.ContentTypeLesson, Description: "Understanding how to graph lines on a coordinate plane", ContentBody: "A linear function can be graphed using slope-intercept form y = mx + b...", DifficultyLevel: model.DifficultyIntermediate, EstimatedDurationMinutes: 40},
		}
		if err := tx.Create(&contents).Error; err != nil {
			return err
		}

		linear := contents[1].ID
		assessment := model.Assessment{
			SubjectID:       math.ID,
			ContentID:       &linear,
			Title:           "Linear Equations Quiz",
			AssessmentType:  model.AssessmentTypeQuiz,
			Description:     "Check your understanding of one-step and two-step equations",
			TotalPoints:     100,
			PassingScore:    70,
			DifficultyLevel: model.DifficultyBeginner,
			Questions: []model.AssessmentQuestion{
				{ID: "1", Question: "Solve 2x + 5 = 13", Options: []string{"3", "4", "5"}, CorrectAnswer: strPtr("4")},
				{ID: "2", Question: "Solve 3x - 7 = 8", Options: []string{"5", "6", "7"}, CorrectAnswer: strPtr("5")},
				{ID: "3", Question: "Solve x / 2 = 6", Options: []string{"3", "8", "12"}, CorrectAnswer: strPtr("12")},
			},
		}
		if err := tx.Create(&assessment).Error; err != nil {
			return err
		}

		educator := model.Educator{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.edu", Department: "Mathematics"}
		if err := tx.Create(&educator).Error; err != nil {
			return err
		}

		log.Println("Seed data created")
		return nil
	})
}
