package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE projects (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				type VARCHAR(255) NOT NULL DEFAULT '',
				owner VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_projects_owner ON projects(owner);
			CREATE INDEX idx_projects_created_at ON projects(created_at);

			CREATE TABLE ideas (
				id UUID PRIMARY KEY,
				project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				effort INT NOT NULL DEFAULT 0,
				impact INT NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_ideas_project_id ON ideas(project_id);

			CREATE TABLE roadmaps (
				id UUID PRIMARY KEY,
				project_id UUID NOT NULL,
				analysis JSONB NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('active', 'archived')),
				author_id VARCHAR(255),
				idea_count INT NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_roadmaps_project_id ON roadmaps(project_id);
			CREATE INDEX idx_roadmaps_status ON roadmaps(status);
			CREATE INDEX idx_roadmaps_created_at ON roadmaps(created_at);
		`,
	}
}
