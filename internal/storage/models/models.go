package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"smart-recruit/internal/types"
)

// Candidate is the master candidate record. The structured profile fields
// produced by extraction are stored as JSON columns.
type Candidate struct {
	CandidateID        string         `gorm:"type:char(36);primaryKey"`
	Name               string         `gorm:"type:varchar(255)"`
	Email              string         `gorm:"type:varchar(255);index:idx_candidates_email"`
	Phone              string         `gorm:"type:varchar(50)"`
	SkillsJSON         datatypes.JSON `gorm:"type:json"`
	ExperienceJSON     datatypes.JSON `gorm:"type:json"`
	EducationJSON      datatypes.JSON `gorm:"type:json"`
	CertificationsJSON datatypes.JSON `gorm:"type:json"`
	Summary            string         `gorm:"type:text"`
	CreatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// Profile rebuilds the extraction profile from the JSON columns.
func (c *Candidate) Profile() (*types.CandidateProfile, error) {
	p := &types.CandidateProfile{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Summary: c.Summary,
	}
	if len(c.SkillsJSON) > 0 {
		if err := json.Unmarshal(c.SkillsJSON, &p.Skills); err != nil {
			return nil, err
		}
	}
	if len(c.ExperienceJSON) > 0 {
		if err := json.Unmarshal(c.ExperienceJSON, &p.Experience); err != nil {
			return nil, err
		}
	}
	if len(c.EducationJSON) > 0 {
		if err := json.Unmarshal(c.EducationJSON, &p.Education); err != nil {
			return nil, err
		}
	}
	if len(c.CertificationsJSON) > 0 {
		if err := json.Unmarshal(c.CertificationsJSON, &p.Certifications); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ApplyProfile writes the extraction profile into the JSON columns.
func (c *Candidate) ApplyProfile(p *types.CandidateProfile) error {
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return err
	}
	experience, err := json.Marshal(p.Experience)
	if err != nil {
		return err
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return err
	}
	certifications, err := json.Marshal(p.Certifications)
	if err != nil {
		return err
	}
	c.Name = p.Name
	c.Email = p.Email
	c.Phone = p.Phone
	c.Summary = p.Summary
	c.SkillsJSON = skills
	c.ExperienceJSON = experience
	c.EducationJSON = education
	c.CertificationsJSON = certifications
	return nil
}

// Job holds an open position and its matching requirements.
type Job struct {
	JobID              string         `gorm:"type:char(36);primaryKey"`
	Title              string         `gorm:"type:varchar(255);not null"`
	Department         string         `gorm:"type:varchar(255)"`
	Description        string         `gorm:"type:text;not null"`
	RequirementsText   string         `gorm:"type:text"`
	SkillsRequiredJSON datatypes.JSON `gorm:"type:json"`
	MinExperienceYears int            `gorm:"type:int;default:0"`
	EducationLevel     string         `gorm:"type:varchar(50)"`
	Status             string         `gorm:"type:varchar(50);default:'ACTIVE';index:idx_jobs_status"`
	CreatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

// Requirement rebuilds the matching requirement from the row.
func (j *Job) Requirement() (*types.JobRequirement, error) {
	req := &types.JobRequirement{
		Title:              j.Title,
		Description:        j.Description,
		Requirements:       j.RequirementsText,
		MinExperienceYears: j.MinExperienceYears,
		EducationLevel:     j.EducationLevel,
	}
	if len(j.SkillsRequiredJSON) > 0 {
		if err := json.Unmarshal(j.SkillsRequiredJSON, &req.SkillsRequired); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Resume tracks one uploaded CV file through the processing pipeline.
type Resume struct {
	ResumeID            string    `gorm:"type:char(36);primaryKey"`
	CandidateID         *string   `gorm:"type:char(36);index:idx_resumes_candidate_id"`
	JobID               *string   `gorm:"type:char(36);index:idx_resumes_job_id"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string    `gorm:"type:varchar(1024)"`
	RawFileMD5          string    `gorm:"type:char(32);index:idx_resumes_raw_file_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_PARSE';index:idx_resumes_processing_status"`
	ProcessingError     string    `gorm:"type:text"`
	ParserVersion       string    `gorm:"type:varchar(50)"`
	CreatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Job       *Job       `gorm:"foreignKey:JobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Resume) TableName() string {
	return "resumes"
}

// Ranking stores one scored candidate row of a ranking run. A new run for a
// job replaces all of its previous rows.
type Ranking struct {
	RankingID          uint64         `gorm:"primaryKey;autoIncrement"`
	JobID              string         `gorm:"type:char(36);not null;index:idx_rankings_job_position,priority:1;uniqueIndex:idx_rankings_job_candidate,priority:1"`
	CandidateID        string         `gorm:"type:char(36);not null;uniqueIndex:idx_rankings_job_candidate,priority:2"`
	OverallScore       float64        `gorm:"type:double;not null"`
	SkillScore         float64        `gorm:"type:double;not null"`
	ExperienceScore    float64        `gorm:"type:double;not null"`
	EducationScore     float64        `gorm:"type:double;not null"`
	CertificationScore float64        `gorm:"type:double;not null"`
	SimilarityScore    float64        `gorm:"type:double;not null"`
	RankPosition       int            `gorm:"type:int;not null;index:idx_rankings_job_position,priority:2"`
	MatchedSkillsJSON  datatypes.JSON `gorm:"type:json"`
	MissingSkillsJSON  datatypes.JSON `gorm:"type:json"`
	Explanation        string         `gorm:"type:text"`
	CreatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Ranking) TableName() string {
	return "rankings"
}
